package importer

import (
	"encoding/json"
	"net/http"

	"Yplus/internal/calc/batch"
	"Yplus/internal/calc/yplus"
	"Yplus/internal/logging"

	"github.com/xuri/excelize/v2"
)

const (
	MaxUploadSize = 10 << 20 // 10MB
	xlsxType      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type Handler struct {
	Style yplus.Style
}

// Import accepts a multipart upload in the "file" field.
func (h *Handler) Import(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "File required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := Import(file, h.Style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	yplus.WriteJSON(w, http.StatusOK, res)
}

// Export calculates a JSON batch and returns it as a workbook.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	var input batch.Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := batch.Calculate(input, h.Style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	f, err := Export(res)
	if err != nil {
		log := logging.Logger()
		log.Error().Err(err).Msg("build export workbook")
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	writeWorkbook(w, f, "yplus-results.xlsx")
}

// Template returns a workbook to fill in for Import.
func (h *Handler) Template(w http.ResponseWriter, r *http.Request) {
	f, err := Template()
	if err != nil {
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	writeWorkbook(w, f, "yplus-template.xlsx")
}

func writeWorkbook(w http.ResponseWriter, f *excelize.File, name string) {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		http.Error(w, "Export error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", xlsxType)
	w.Header().Set("Content-Disposition", "attachment; filename=\""+name+"\"")
	w.Write(buf.Bytes())
}
