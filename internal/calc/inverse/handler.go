package inverse

import (
	"encoding/json"
	"net/http"

	"Yplus/internal/calc/yplus"
)

type Handler struct{}

func (h *Handler) Calc(w http.ResponseWriter, r *http.Request) {
	var input Input
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		yplus.WriteJSON(w, http.StatusBadRequest, yplus.ErrorResponse{Error: "Invalid request payload"})
		return
	}
	res, err := Calculate(input)
	if err != nil {
		yplus.WriteJSON(w, yplus.StatusFor(err), yplus.NewErrorResponse(err))
		return
	}
	yplus.WriteJSON(w, http.StatusOK, res)
}
