package testutils

import (
	"fmt"

	"github.com/papercomputeco/turnexec/pkg/dataset"
)

// NewCommandDataset creates n conversations, each holding one human turn
// running `echo <index>` and an empty gpt turn.
func NewCommandDataset(n int) dataset.Dataset {
	ds := make(dataset.Dataset, 0, n)
	for i := range n {
		ds = append(ds, dataset.NewConversation(
			dataset.NewTurn(dataset.RoleHuman, fmt.Sprintf("echo %d", i)),
			dataset.NewTurn(dataset.RoleGPT, ""),
		))
	}
	return ds
}

// GPTValue returns the value of the turn at turnIdx in conversation convIdx.
func GPTValue(ds dataset.Dataset, convIdx, turnIdx int) string {
	value, err := ds[convIdx].Turns()[turnIdx].Value()
	if err != nil {
		return ""
	}
	return value
}
