// Package access provides the public constructor for the database access
// service while keeping its implementation internal.
package access

import (
	"log/slog"

	"github.com/mesh-intelligence/kursplan/internal/access"
	"github.com/mesh-intelligence/kursplan/pkg/types"
)

// NewService validates cfg and returns an unconnected Service that tries
// cfg.Providers in order. A nil logger discards output.
//
// Example:
//
//	svc, err := access.NewService(types.DefaultConfig(), nil)
//	if err != nil {
//	    return err
//	}
//	defer svc.Close()
//	if err := svc.Connect(ctx, `C:\Kursplan\Kursprogramm_V1.accdb`); err != nil {
//	    return err
//	}
//	ok, missing, err := svc.ValidateSchema(ctx, types.RequiredTables)
func NewService(cfg types.Config, logger *slog.Logger) (types.Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return access.NewService(cfg.Providers, logger), nil
}

// Providers returns the provider names compiled into this binary.
func Providers() []string {
	return access.Names()
}
