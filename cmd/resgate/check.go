package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/errors"
	"github.com/five82/resgate/internal/gate"
	"github.com/five82/resgate/internal/scenario"
	"github.com/five82/resgate/internal/util"
)

type checkArgs struct {
	codec   string
	layers  string
	bitrate string
	from    string
	to      string
	expect  string
}

func (a *app) newCheckCmd() *cobra.Command {
	var ca checkArgs
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Evaluate a single resolution change",
		Long: `Evaluate one proposed restriction change against the configured limit table.

Restrictions are given as WIDTHxHEIGHT, a pixel count, or "unrestricted".`,
		Example: `  resgate check --layers 640x360:on --bitrate 450k --from 640x360 --to 960x540
  resgate check --layers 320x180:on,640x360:off --bitrate 1M --from 57600 --to unrestricted`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCheck(cmd, ca)
		},
	}

	f := cmd.Flags()
	f.StringVar(&ca.codec, "codec", "vp8", "codec (generic, vp8, vp9, av1, h264)")
	f.StringVar(&ca.layers, "layers", "640x360:on", "comma-separated layers as WxH[:on|off], lowest first")
	f.StringVar(&ca.bitrate, "bitrate", "", "target bitrate, e.g. 450000, 450k or 1.5M (unset when empty)")
	f.StringVar(&ca.from, "from", "", "current restriction (required)")
	f.StringVar(&ca.to, "to", "unrestricted", "proposed restriction")
	f.StringVar(&ca.expect, "expect", "", "fail unless the decision is allow or deny")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}

func (a *app) runCheck(cmd *cobra.Command, ca checkArgs) error {
	sc, err := ca.scenario()
	if err != nil {
		return err
	}

	source, limits, err := a.limits()
	if err != nil {
		return err
	}
	rp := scenario.NewReplayer(
		scenario.WithReporter(a.newReporter()),
		scenario.WithDefaultLimits(source, limits),
	)
	result, err := rp.Run(cmd.Context(), sc)
	if err != nil {
		return err
	}
	if result.Mismatches > 0 {
		d := result.Decisions[0]
		return errors.NewExpectationError(sc.Name, len(sc.Steps), ca.expect, verdict(d.Allowed), d.Reason.String())
	}
	return nil
}

// scenario builds a one-proposal scenario from the flags.
func (ca checkArgs) scenario() (*scenario.Scenario, error) {
	codec, err := encoder.ParseCodecType(ca.codec)
	if err != nil {
		return nil, errors.NewConfigError("invalid --codec", err)
	}
	layers, err := parseLayers(ca.layers)
	if err != nil {
		return nil, errors.NewConfigError("invalid --layers", err)
	}
	before, err := parseRestriction(ca.from)
	if err != nil {
		return nil, errors.NewConfigError("invalid --from", err)
	}
	after, err := parseRestriction(ca.to)
	if err != nil {
		return nil, errors.NewConfigError("invalid --to", err)
	}

	settings := &encoder.Settings{
		Config: encoder.Config{Layers: layers},
		Codec:  encoder.Codec{Type: codec, SimulcastStreams: layers},
	}
	if codec == encoder.CodecVP9 {
		settings.Codec.SpatialLayers = layers
	}

	steps := []scenario.Step{{Kind: scenario.StepSettings, Settings: settings}}
	if ca.bitrate != "" {
		bps, err := util.ParseBitrate(ca.bitrate)
		if err != nil {
			return nil, errors.NewConfigError("invalid --bitrate", err)
		}
		steps = append(steps, scenario.Step{Kind: scenario.StepBitrate, BitrateBps: &bps})
	}

	proposal := scenario.Proposal{Before: before, After: after}
	switch strings.ToLower(ca.expect) {
	case "":
	case "allow":
		proposal.Expect = scenario.ExpectAllow
	case "deny":
		proposal.Expect = scenario.ExpectDeny
	default:
		return nil, errors.NewConfigError("invalid --expect", fmt.Errorf("want allow or deny, got %q", ca.expect))
	}
	steps = append(steps, scenario.Step{Kind: scenario.StepPropose, Proposal: proposal})

	return &scenario.Scenario{Name: "check", Source: "command line", Steps: steps}, nil
}

// parseLayers parses "640x360:on,1280x720:off". Layers are active unless
// marked off.
func parseLayers(s string) ([]encoder.Layer, error) {
	var layers []encoder.Layer
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		res, state, _ := strings.Cut(part, ":")
		w, h, err := util.ParseResolution(res)
		if err != nil {
			return nil, err
		}
		l := encoder.Layer{Width: w, Height: h, Active: true}
		switch strings.ToLower(state) {
		case "", "on":
		case "off":
			l.Active = false
		default:
			return nil, fmt.Errorf("invalid layer state %q in %q, expected on or off", state, part)
		}
		layers = append(layers, l)
	}
	if len(layers) == 0 {
		return nil, fmt.Errorf("no layers given")
	}
	return layers, nil
}

// parseRestriction parses "unrestricted", a pixel count or WxH.
func parseRestriction(s string) (gate.Restrictions, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "unrestricted") {
		return gate.Unrestricted(), nil
	}
	if px, err := strconv.Atoi(s); err == nil {
		if px < 0 {
			return gate.Restrictions{}, fmt.Errorf("pixel count must not be negative: %d", px)
		}
		return gate.MaxPixels(px), nil
	}
	w, h, err := util.ParseResolution(s)
	if err != nil {
		return gate.Restrictions{}, err
	}
	return gate.MaxPixels(w * h), nil
}

func verdict(allowed bool) string {
	if allowed {
		return "allow"
	}
	return "deny"
}
