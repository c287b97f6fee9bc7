package app

import (
	"context"
	"fmt"
	"sort"

	"continuum/internal/api"
	"continuum/internal/command"
	"continuum/internal/config"
	"continuum/internal/correlation"
	"continuum/internal/daemon"
	"continuum/internal/normalize"
	"continuum/internal/orchestrator"
	"continuum/pkg/logging"
)

// Platform is the assembled routing core: registry, orchestrator,
// normalization registry and request correlator wired over the loopback
// transport. It is the single object the CLI surface talks to.
type Platform struct {
	cfg        config.Config
	configPath string

	registry     *daemon.Registry
	orchestrator *orchestrator.Orchestrator
	normalizer   *normalize.Registry
	correlator   *correlation.Correlator
}

// Config returns the configuration the platform was assembled from.
func (p *Platform) Config() config.Config {
	return p.cfg
}

// ConfigPath returns the configuration directory, or "" when the platform
// was built from an in-memory config.
func (p *Platform) ConfigPath() string {
	return p.configPath
}

// Start brings every daemon up in dependency order and verifies integration
// health. Safe to call repeatedly.
func (p *Platform) Start(ctx context.Context) error {
	return p.orchestrator.Initialize(ctx)
}

// Stop shuts daemons down in reverse startup order.
func (p *Platform) Stop(ctx context.Context) error {
	return p.orchestrator.Shutdown(ctx)
}

// Status reports aggregate and per-daemon health.
func (p *Platform) Status(ctx context.Context) orchestrator.IntegrationStatus {
	return p.orchestrator.Status(ctx)
}

// SubscribeStateChanges exposes daemon state transitions to observers.
func (p *Platform) SubscribeStateChanges() <-chan orchestrator.StateChange {
	return p.orchestrator.SubscribeStateChanges()
}

// Pending reports the number of in-flight correlated requests.
func (p *Platform) Pending() int {
	return p.correlator.Pending()
}

// Dispatch runs one raw input through the full pipeline: normalize the
// input into canonical parameters, resolve the target daemon, then send a
// correlated request and wait for its response. Every failure mode comes
// back inside the Result; Dispatch never panics and never returns a bare
// error to its caller.
func (p *Platform) Dispatch(ctx context.Context, raw any) api.Result {
	params := p.normalizer.Parse(raw)

	cmd, ok := params["command"].(string)
	if !ok || cmd == "" {
		return api.Fail("input has no command after normalization")
	}

	req := api.Request{
		Command:  cmd,
		Params:   params,
		TargetID: p.resolveTarget(params),
	}

	logging.Debug("Platform", "Dispatching %q to %s", req.Command, req.TargetID)
	result, err := p.correlator.Call(ctx, req)
	if err != nil {
		return api.FailErr(err)
	}
	return result
}

// resolveTarget picks the daemon a normalized request is routed to: an
// explicit to/target parameter naming a registered daemon wins, otherwise
// the first daemon handling the command, otherwise the first declared one.
func (p *Platform) resolveTarget(params map[string]any) string {
	for _, key := range []string{"to", "target"} {
		if name, ok := params[key].(string); ok {
			if _, found := p.registry.Get(name); found {
				return name
			}
		}
	}

	if cmd, ok := params["command"].(string); ok {
		for _, decl := range p.cfg.Daemons {
			d, found := p.registry.Get(decl.Name)
			if !found {
				continue
			}
			g, isGeneric := d.(*daemon.Generic)
			if !isGeneric {
				continue
			}
			for _, t := range g.HandledTypes() {
				if t == cmd {
					return decl.Name
				}
			}
		}
	}

	if len(p.cfg.Daemons) == 0 {
		return ""
	}
	return p.cfg.Daemons[0].Name
}

// registerCoreHandlers binds the platform's own commands onto the first
// declared daemon. They go through the same contract wrapper as any other
// command, so panics and validation failures surface as failed results.
func (p *Platform) registerCoreHandlers() {
	if len(p.cfg.Daemons) == 0 {
		return
	}
	core, ok := p.registry.Get(p.cfg.Daemons[0].Name)
	if !ok {
		return
	}
	g, ok := core.(*daemon.Generic)
	if !ok {
		return
	}

	echo := &command.Command{
		Name:           "echo",
		RequiredParams: []string{"message"},
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			return map[string]any{"message": params["message"]}, nil
		},
	}
	g.RegisterHandler(echo.Name, echo.Handler())

	listDaemons := &command.Command{
		Name: "list-daemons",
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			daemons := make([]map[string]any, 0, len(p.registry.GetAll()))
			for _, d := range p.registry.GetAll() {
				daemons = append(daemons, map[string]any{
					"name":  d.Name(),
					"state": string(d.State()),
				})
			}
			sort.Slice(daemons, func(i, j int) bool {
				return fmt.Sprint(daemons[i]["name"]) < fmt.Sprint(daemons[j]["name"])
			})
			return map[string]any{"daemons": daemons}, nil
		},
	}
	g.RegisterHandler(listDaemons.Name, listDaemons.Handler())

	listCommands := &command.Command{
		Name: "list-commands",
		Execute: func(ctx context.Context, params map[string]any) (any, error) {
			commands := map[string][]string{}
			for _, d := range p.registry.GetAll() {
				if gd, isGeneric := d.(*daemon.Generic); isGeneric {
					commands[d.Name()] = gd.HandledTypes()
				}
			}
			return map[string]any{"commands": commands}, nil
		},
	}
	g.RegisterHandler(listCommands.Name, listCommands.Handler())
	// tools/list arrives as list-tools after JSON-RPC translation.
	g.RegisterHandler("list-tools", listCommands.Handler())
}
