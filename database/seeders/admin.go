package seeders

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/shashiranjanraj/dinehub/internal/kernel"
)

func init() {
	Register("admin", SeedAdmin)
}

// SeedAdmin creates or promotes the ADMIN_EMAIL account. Without admin
// credentials configured it is skipped.
func SeedAdmin(ctx context.Context, k *kernel.Kernel, out io.Writer) error {
	created, err := k.SeedAdmin(ctx)
	switch {
	case errors.Is(err, kernel.ErrNoAdminCredentials):
		fmt.Fprint(out, "skipped (ADMIN_EMAIL/ADMIN_PASSWORD unset) ")
		return nil
	case err != nil:
		return err
	case created:
		fmt.Fprint(out, "created ")
	default:
		fmt.Fprint(out, "already present ")
	}
	return nil
}
