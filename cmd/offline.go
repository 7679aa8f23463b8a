package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/desertthunder/sonora/internal/offline"
	"github.com/desertthunder/sonora/internal/repositories"
	"github.com/desertthunder/sonora/internal/server"
	"github.com/desertthunder/sonora/internal/services"
	"github.com/desertthunder/sonora/internal/shared"
	"github.com/urfave/cli/v3"
)

// controlClient talks to the control routes of a running intermediary.
func (r *Runner) controlClient(cmd *cli.Command) *services.APIService {
	addr := cmd.String("server")
	if addr == "" {
		addr = r.config.Server.Addr()
	}
	if !strings.Contains(addr, "://") {
		addr = "http://" + addr
	}
	return services.NewAPIService(strings.TrimRight(addr, "/")+strings.TrimRight(server.ControlPrefix, "/"), r.httpClient)
}

// control sends one control request and decodes a successful reply into dst.
func (r *Runner) control(ctx context.Context, cmd *cli.Command, path string, body any, dst any) error {
	client := r.controlClient(cmd)

	var (
		resp *services.APIResponse
		err  error
	)
	if body == nil {
		resp, err = client.Get(ctx, path)
	} else {
		data, merr := json.Marshal(body)
		if merr != nil {
			return fmt.Errorf("failed to encode request: %w", merr)
		}
		resp, err = client.Post(ctx, path, data)
	}
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrServiceUnavailable, err)
	}

	if !resp.OK() {
		var reply server.ErrorReply
		if derr := resp.Decode(&reply); derr == nil && reply.Error != "" {
			return fmt.Errorf("%w: %s (%d)", shared.ErrAPIRequest, reply.Error, resp.StatusCode)
		}
		return fmt.Errorf("%w: %s returned %d", shared.ErrAPIRequest, path, resp.StatusCode)
	}
	if dst == nil {
		return nil
	}
	return resp.Decode(dst)
}

// localRegistration reads the cache database without any active worker.
func (r *Runner) localRegistration() (*offline.Registration, error) {
	db, err := r.database()
	if err != nil {
		return nil, err
	}
	logger := shared.WithLogger(r.logger, "component", "offline")
	return offline.NewRegistration(repositories.NewCacheRepository(db), r.httpClient.Transport, logger), nil
}

// OfflineStatus prints worker versions and partition sizes.
func (r *Runner) OfflineStatus(ctx context.Context, cmd *cli.Command) error {
	var st offline.Status
	if cmd.Bool("local") {
		reg, err := r.localRegistration()
		if err != nil {
			return err
		}
		s, err := reg.Status(ctx)
		if err != nil {
			return err
		}
		st = *s
	} else if err := r.control(ctx, cmd, "/status", nil, &st); err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(st, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Offline cache")
	r.writePlain("Active:  %s\n", orNone(st.Active))
	r.writePlain("Waiting: %s\n", orNone(st.Waiting))
	if len(st.Partitions) == 0 {
		return r.writePlainln("No cache partitions")
	}
	r.writePlainln("Partitions:")
	for _, p := range st.Partitions {
		r.writePlain("  %-24s %d entries\n", p.Name, p.Entries)
	}
	return nil
}

// OfflineVersion asks the server for its active version.
func (r *Runner) OfflineVersion(ctx context.Context, cmd *cli.Command) error {
	var reply offline.Reply
	if err := r.control(ctx, cmd, "/message", offline.Message{Type: offline.MessageGetVersion}, &reply); err != nil {
		return err
	}
	return r.writePlain("%s\n", reply.Version)
}

// OfflineSkipWaiting promotes a waiting version.
func (r *Runner) OfflineSkipWaiting(ctx context.Context, cmd *cli.Command) error {
	var reply offline.Reply
	if err := r.control(ctx, cmd, "/message", offline.Message{Type: offline.MessageSkipWaiting}, &reply); err != nil {
		return err
	}
	if !reply.Promoted {
		return r.writePlain("No waiting version\n")
	}
	return r.writePlain("✓ Waiting version promoted\n")
}

// OfflineClear deletes every cache partition.
func (r *Runner) OfflineClear(ctx context.Context, cmd *cli.Command) error {
	reg, err := r.localRegistration()
	if err != nil {
		return err
	}
	deleted, err := reg.Clear(ctx)
	if err != nil {
		return err
	}
	if len(deleted) == 0 {
		return r.writePlain("Nothing to clear\n")
	}
	return r.writePlain("✓ Deleted %d partitions: %s\n", len(deleted), strings.Join(deleted, ", "))
}

// OfflineSync triggers a background sync.
func (r *Runner) OfflineSync(ctx context.Context, cmd *cli.Command) error {
	tag := cmd.StringArg("tag")
	if tag == "" {
		return fmt.Errorf("%w: tag", shared.ErrMissingArgument)
	}

	var reply server.SyncReply
	if err := r.control(ctx, cmd, "/sync?tag="+url.QueryEscape(tag), struct{}{}, &reply); err != nil {
		return err
	}
	return r.writePlain("%s: %s\n", reply.Tag, reply.Status)
}

// OfflinePush delivers a push event and prints the resulting notification.
func (r *Runner) OfflinePush(ctx context.Context, cmd *cli.Command) error {
	payload := map[string]any{}
	if v := cmd.String("title"); v != "" {
		payload["title"] = v
	}
	if v := cmd.String("body"); v != "" {
		payload["body"] = v
	}
	if v := cmd.String("url"); v != "" {
		payload["data"] = offline.NotificationData{URL: v}
	}

	var n offline.Notification
	if err := r.control(ctx, cmd, "/push", payload, &n); err != nil {
		return err
	}
	return r.writeJSON(n, true)
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
