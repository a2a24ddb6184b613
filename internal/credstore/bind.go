package credstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/me/yogastudio/internal/auth"
	"github.com/me/yogastudio/internal/logging"
)

// Bind restores the saved login for server into state, then keeps the store
// in step with it: every LogIn saves the current snapshot and every LogOut
// deletes the row. An expired credential is deleted instead of restored.
// The returned cancel func detaches the store from state.
func Bind(ctx context.Context, st Store, state *auth.State, server string, logger *slog.Logger) (cancel func(), err error) {
	logger = logging.OrDiscard(logger).With("component", "credstore", "server", server)

	cred, err := st.Load(ctx, server)
	if err != nil {
		return nil, fmt.Errorf("restore login: %w", err)
	}
	switch {
	case cred == nil:
	case cred.Expired(time.Now()):
		logger.Info("saved login expired", "user_id", cred.Info.ID, "expired_at", cred.ExpiresAt)
		if err := st.Delete(ctx, server); err != nil {
			return nil, fmt.Errorf("drop expired login: %w", err)
		}
	default:
		info := cred.Info
		state.LogIn(&info)
		logger.Debug("restored login", "user_id", info.ID)
	}

	bg := context.WithoutCancel(ctx)
	var replayed atomic.Bool
	return state.Subscribe(func(logged bool) {
		// The first call is the replay of the value just restored.
		if !replayed.Swap(true) {
			return
		}
		if logged {
			// A nested or concurrent LogOut may already have cleared the
			// snapshot; the matching false emission deletes the row.
			info := state.Information()
			if info == nil {
				logger.Debug("login cleared before it could be saved")
				return
			}
			if err := st.Save(bg, server, info); err != nil {
				logger.Warn("persist login failed", "error", err)
			}
			return
		}
		if err := st.Delete(bg, server); err != nil {
			logger.Warn("forget login failed", "error", err)
		}
	}), nil
}
