package intake

import (
	"context"

	"zapway/pkg/logger"
)

// LogSubmitter records submitted applications in the service log. It is the
// default hand-off until a partner CRM is wired in.
type LogSubmitter struct {
	Logger logger.Logger
}

func (s LogSubmitter) Submit(ctx context.Context, app Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.Logger.Info("Partner application queued for compliance review", map[string]interface{}{
		"application_id": app.ID.String(),
		"role":           string(app.Role),
		"entity_name":    app.Form.EntityName,
		"monthly_vol":    app.Form.MonthlyVol,
	})
	return nil
}
