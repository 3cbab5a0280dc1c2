package seed

import (
	"context"
	"log"

	"shoppos/m/internal/auth"
	"shoppos/m/internal/store"
)

// Operator creates the first owner account when none exists yet. Without a
// password nothing is created and the API stays locked.
func Operator(ctx context.Context, st *store.Store, authSvc *auth.Service, username, password string) error {
	n, err := st.CountOperators(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if password == "" {
		log.Printf("no operators exist; set ADMIN_PASSWORD to create %q", username)
		return nil
	}
	if _, err := authSvc.AddOperator(ctx, username, password, auth.RoleOwner); err != nil {
		return err
	}
	log.Printf("created owner operator %q", username)
	return nil
}
