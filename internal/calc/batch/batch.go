package batch

import (
	"fmt"

	"Yplus/internal/calc/yplus"
)

// MaxItems bounds one batch request.
const MaxItems = 1000

type Input struct {
	Items []yplus.Input `json:"items"`
}

// Item is the outcome of one input: either Result or Error is set.
type Item struct {
	Index  int                  `json:"index"`
	Input  yplus.Input          `json:"input"`
	Result *yplus.Response      `json:"result,omitempty"`
	Error  *yplus.ErrorResponse `json:"error,omitempty"`
}

type Result struct {
	Succeeded int    `json:"succeeded"`
	Failed    int    `json:"failed"`
	Items     []Item `json:"items"`
}

// Calculate evaluates every item independently; a bad item is reported in
// place and does not stop the rest.
func Calculate(in Input, style yplus.Style) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, fmt.Errorf("no items")
	}
	if len(in.Items) > MaxItems {
		return Result{}, fmt.Errorf("too many items: %d > %d", len(in.Items), MaxItems)
	}
	out := Result{Items: make([]Item, 0, len(in.Items))}
	for i, input := range in.Items {
		item := Item{Index: i, Input: input}
		res, err := yplus.Evaluate(input, style)
		if err != nil {
			e := yplus.NewErrorResponse(err)
			item.Error = &e
			out.Failed++
		} else {
			item.Result = &res
			out.Succeeded++
		}
		out.Items = append(out.Items, item)
	}
	return out, nil
}
