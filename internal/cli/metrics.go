package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/openzhmc/zhmc/internal/client"
	"github.com/openzhmc/zhmc/internal/logging"
	"github.com/openzhmc/zhmc/internal/output"
)

const metricsContextURI = "/api/services/metrics/context"

func newMetricsCmd(cctx *CmdContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Commands for HMC metrics",
	}
	cmd.AddCommand(newMetricsGetCmd(cctx))
	return cmd
}

func newMetricsGetCmd(cctx *CmdContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get METRICS-GROUP",
		Short: "Retrieve the current metrics of a metrics group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cctx.Execute(func(ctx context.Context, s *client.Session) error {
				return cctx.getMetrics(ctx, s, args[0])
			})
		},
	}
}

// getMetrics performs a one-shot metrics retrieval: create a metrics
// context for the group, read it once, delete it again.
func (c *CmdContext) getMetrics(ctx context.Context, s *client.Session, group string) error {
	body := map[string]any{
		"anticipated-frequency-seconds": 15,
		"metric-groups":                 []any{group},
	}
	created, err := s.Post(ctx, metricsContextURI, body)
	if err != nil {
		return err
	}
	uri, ok := created["metrics-context-uri"].(string)
	if !ok || uri == "" {
		return &client.ParseError{
			Message: "metrics context response has no metrics-context-uri property",
		}
	}
	defer func() {
		if err := s.Delete(context.WithoutCancel(ctx), uri); err != nil {
			lg := logging.Component(logging.ComponentAPI)
			lg.Warn().Err(err).Str("uri", uri).Msg("delete metrics context failed")
		}
	}()

	resp, err := s.Get(ctx, uri)
	if err != nil {
		return err
	}
	return c.renderMetrics(resp, group)
}

// renderMetrics flattens the object values of one metrics group into a
// record set with the resource URI as the leading column.
func (c *CmdContext) renderMetrics(resp map[string]any, group string) error {
	columns := []string{"resource-uri"}
	var records []output.Record

	groups, _ := resp["metric-group-values"].([]any)
	for _, g := range groups {
		gv, ok := g.(map[string]any)
		if !ok || gv["name"] != group {
			continue
		}
		values, _ := gv["object-values"].([]any)
		for _, v := range values {
			ov, ok := v.(map[string]any)
			if !ok {
				continue
			}
			rec := output.Record{"resource-uri": ov["resource-uri"]}
			if metrics, ok := ov["metrics"].(map[string]any); ok {
				for name, value := range metrics {
					rec[name] = value
				}
			}
			records = append(records, rec)
		}
	}

	objs := make([]map[string]any, len(records))
	for i, rec := range records {
		objs[i] = rec
	}
	columns = withRemainingColumns(columns, objs)

	rs := output.NewRecordSet(columns...)
	for _, rec := range records {
		rs.Append(rec)
	}
	return c.render(rs)
}
