package main

import (
	"errors"
	"time"

	"room-scheduler/internal/core/domain"
	"room-scheduler/internal/pkg/fingerprint"
	"room-scheduler/internal/pkg/jwt"

	"github.com/spf13/cobra"
)

// decodeResult is printed by the decode command
type decodeResult struct {
	Fingerprint string           `json:"fingerprint"`
	Claims      *domain.ClaimSet `json:"claims,omitempty"`
	Usable      bool             `json:"usable"`
	Reason      string           `json:"reason,omitempty"`
	EvaluatedAt time.Time        `json:"evaluated_at"`
}

func newDecodeCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <credential>",
		Short: "Decode a credential and report whether it is usable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := opts.clock()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), decodeCredential(args[0], now()))
		},
	}
}

func decodeCredential(credential string, now time.Time) decodeResult {
	result := decodeResult{
		Fingerprint: fingerprint.Of(credential),
		EvaluatedAt: now.UTC(),
	}

	claims, err := jwt.Decode(credential)
	if err != nil {
		result.Reason = err.Error()
		return result
	}
	result.Claims = claims

	if err := jwt.Check(claims, now); err != nil {
		result.Reason = err.Error()
		if errors.Is(err, jwt.ErrTokenExpired) {
			result.Reason = "expired"
		}
		return result
	}

	result.Usable = true
	return result
}
