package batch

import (
	"encoding/json"
	"net/http"

	"Yplus/internal/calc/yplus"
)

type Handler struct {
	Style yplus.Style
}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	res, err := Calculate(input, h.Style)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	yplus.WriteJSON(w, http.StatusOK, res)
}
