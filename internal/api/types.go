package api

import (
	"time"

	"github.com/google/uuid"

	"two-time-pad/internal/store"
)

// DecodeReq is the body of POST /decode. Ciphertexts are hex encoded.
type DecodeReq struct {
	Ciphertext1 string `json:"ciphertext1" validate:"required,hexadecimal"`
	Ciphertext2 string `json:"ciphertext2" validate:"required,hexadecimal"`
	BeamWidth   *int   `json:"beamWidth,omitempty" validate:"omitempty,min=1,max=1000"`
	Truncate    bool   `json:"truncate"`
}

// Run is a decode result as returned by the API.
type Run struct {
	Id         *uuid.UUID `json:"id,omitempty"`
	CreatedAt  *time.Time `json:"createdAt,omitempty"`
	BeamWidth  int        `json:"beamWidth"`
	Plaintext1 string     `json:"plaintext1"`
	Plaintext2 string     `json:"plaintext2"`
	Score      float64    `json:"score"`
	Positions  int        `json:"positions"`
	Complete   bool       `json:"complete"`
	Cached     bool       `json:"cached,omitempty"`
}

// ListRunsParams defines parameters for ListRuns.
type ListRunsParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

func runFromStore(r store.Run) Run {
	id := r.ID
	created := r.CreatedAt
	return Run{
		Id:         &id,
		CreatedAt:  &created,
		BeamWidth:  r.BeamWidth,
		Plaintext1: r.Plaintext1,
		Plaintext2: r.Plaintext2,
		Score:      r.Score,
		Positions:  r.Positions,
		Complete:   r.Complete,
	}
}
