package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/client"
	"github.com/thoas/go-funk"
)

var legalMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

type CallOptions struct {
	GlobalOptions

	Data   string
	Actor  string
	Output string
	// Wait drains the offline queue before exiting.
	Wait time.Duration
}

func DefaultCallOptions() *CallOptions {
	return &CallOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Output:        jsonFormat,
	}
}

func NewCmdCall() *cobra.Command {
	o := DefaultCallOptions()
	cmd := &cobra.Command{
		Use:     "call METHOD PATH",
		Short:   "Call an endpoint through the resolver",
		Example: "  talentflow call GET '/jobs?status=active'\n  talentflow call PATCH /jobs/<id> -d '{\"status\":\"archived\"}'\n  talentflow call POST /candidates -d @candidate.json",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *CallOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Data, "data", "d", o.Data, "JSON request body, or @file to read it from a file")
	fs.StringVar(&o.Actor, "actor", o.Actor, fmt.Sprintf("Actor recorded in timelines (sent as %s)", api.ActorHeader))
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.DurationVar(&o.Wait, "wait", o.Wait, "Wait up to this long for queued writes to be replayed")
}

func (o *CallOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	if strings.HasPrefix(o.Data, "@") {
		raw, err := os.ReadFile(strings.TrimPrefix(o.Data, "@"))
		if err != nil {
			return fmt.Errorf("reading request body: %w", err)
		}
		o.Data = string(raw)
	}
	return nil
}

func (o *CallOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if !funk.ContainsString(legalMethods, strings.ToUpper(args[0])) {
		return fmt.Errorf("method must be one of %s", strings.Join(legalMethods, ", "))
	}
	if !strings.HasPrefix(args[1], "/") {
		return fmt.Errorf("path must start with /")
	}
	if o.Data != "" && !json.Valid([]byte(o.Data)) {
		return fmt.Errorf("request body is not valid JSON")
	}
	return validateOutput(o.Output)
}

// callResult is the printed form of a resolved call.
type callResult struct {
	Status     int             `json:"status"`
	Source     client.Source   `json:"source"`
	RequestId  string          `json:"requestId,omitempty"`
	Queued     bool            `json:"queued,omitempty"`
	QueueId    *uuid.UUID      `json:"queueId,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Pagination *api.Pagination `json:"pagination,omitempty"`
}

func (o *CallOptions) Run(ctx context.Context, args []string) error {
	cfg, done, err := o.Config()
	if err != nil {
		return fmt.Errorf("reading configuration: %w", err)
	}
	defer done()

	e, err := o.Emulator(ctx, cfg)
	if err != nil {
		return err
	}
	defer e.Close()

	req := client.Request{
		Method: strings.ToUpper(args[0]),
		Path:   args[1],
		Actor:  o.Actor,
	}
	if o.Data != "" {
		req.Body = json.RawMessage(o.Data)
	}

	resp, err := e.Call(ctx, req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.Path, err)
	}

	if err := printCallResult(cmdOut, resp, o.Output); err != nil {
		return err
	}

	if resp.Queued && o.Wait > 0 {
		waitCtx, cancel := context.WithTimeout(ctx, o.Wait)
		defer cancel()
		if err := e.Queue().Drain(waitCtx); err != nil {
			return fmt.Errorf("queued write not replayed: %w", err)
		}
	}
	return nil
}

func printCallResult(w io.Writer, resp *client.Response, output string) error {
	return printStructured(w, callResult{
		Status:     resp.StatusCode,
		Source:     resp.Source,
		RequestId:  resp.RequestID,
		Queued:     resp.Queued,
		QueueId:    resp.QueueID,
		Data:       resp.Data,
		Pagination: resp.Pagination,
	}, output)
}
