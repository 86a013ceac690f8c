package scenario

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/five82/resgate/internal/config"
	"github.com/five82/resgate/internal/encoder"
	"github.com/five82/resgate/internal/errors"
	"github.com/five82/resgate/internal/gate"
	"github.com/five82/resgate/internal/util"
)

type fileSpec struct {
	Name               string              `yaml:"name"`
	Limits             string              `yaml:"limits"`
	LimitTable         []config.LimitEntry `yaml:"limit_table"`
	ImplementationName string              `yaml:"implementation_name"`
	Steps              []stepSpec          `yaml:"steps"`
}

// stepSpec keeps raw nodes so that an explicit null can be told apart from
// an absent key.
type stepSpec struct {
	line     int
	settings *yaml.Node
	bitrate  *yaml.Node
	propose  *yaml.Node
	expect   *yaml.Node
}

func (s *stepSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: step must be a mapping", value.Line)
	}
	s.line = value.Line
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		switch key.Value {
		case "settings":
			s.settings = val
		case "bitrate":
			s.bitrate = val
		case "propose":
			s.propose = val
		case "expect":
			s.expect = val
		default:
			return fmt.Errorf("line %d: unknown step field %q", key.Line, key.Value)
		}
	}
	return nil
}

type settingsSpec struct {
	Codec         string      `yaml:"codec"`
	Layers        []layerSpec `yaml:"layers"`
	SpatialLayers []layerSpec `yaml:"spatial_layers"`
}

type layerSpec struct {
	Resolution    string `yaml:"resolution"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	Active        *bool  `yaml:"active"`
	MinBitrate    string `yaml:"min_bitrate"`
	TargetBitrate string `yaml:"target_bitrate"`
	MaxBitrate    string `yaml:"max_bitrate"`
}

type proposeSpec struct {
	Label  string          `yaml:"label"`
	Input  *inputSpec      `yaml:"input"`
	Before restrictionSpec `yaml:"before"`
	After  restrictionSpec `yaml:"after"`
}

type inputSpec struct {
	Resolution string `yaml:"resolution"`
	FPS        int    `yaml:"fps"`
}

type restrictionSpec struct {
	MaxPixels     *int     `yaml:"max_pixels"`
	MaxResolution string   `yaml:"max_resolution"`
	TargetPixels  *int     `yaml:"target_pixels"`
	MaxFPS        *float64 `yaml:"max_fps"`
}

// Load reads and parses a scenario file. The file stem names the scenario
// when the file has no name.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("failed to read scenario %s", path), err)
	}
	sc, err := parse(data, path)
	if err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = util.GetFileStem(path)
	}
	return sc, nil
}

// Parse parses a scenario document.
func Parse(data []byte) (*Scenario, error) {
	return parse(data, "<input>")
}

func parse(data []byte, source string) (*Scenario, error) {
	var spec fileSpec
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&spec); err != nil {
		if stderrors.Is(err, io.EOF) {
			err = fmt.Errorf("empty scenario")
		}
		return nil, errors.NewScenarioParseError(source, err)
	}

	sc, err := spec.convert()
	if err != nil {
		return nil, errors.NewScenarioParseError(source, err)
	}
	sc.Source = source
	return sc, nil
}

func (f *fileSpec) convert() (*Scenario, error) {
	sc := &Scenario{
		Name:               f.Name,
		ImplementationName: f.ImplementationName,
	}

	switch {
	case f.Limits != "" && len(f.LimitTable) > 0:
		return nil, fmt.Errorf("set either limits or limit_table, not both")
	case len(f.LimitTable) > 0:
		limits, err := config.ConvertLimits(f.LimitTable)
		if err != nil {
			return nil, fmt.Errorf("limit_table: %w", err)
		}
		sc.Limits = limits
		sc.LimitsSource = "inline"
	case f.Limits != "":
		preset, err := config.ParsePreset(f.Limits)
		if err != nil {
			return nil, fmt.Errorf("limits: %w", err)
		}
		sc.Limits = config.PresetLimits(preset)
		sc.LimitsSource = preset.String()
	}

	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("scenario has no steps")
	}
	for i := range f.Steps {
		step, err := f.Steps[i].convert()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		sc.Steps = append(sc.Steps, step)
	}
	return sc, nil
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.ShortTag() == "!!null"
}

func (s *stepSpec) convert() (Step, error) {
	set := 0
	for _, n := range []*yaml.Node{s.settings, s.bitrate, s.propose} {
		if n != nil {
			set++
		}
	}
	if set != 1 {
		return Step{}, fmt.Errorf("line %d: step needs exactly one of settings, bitrate, propose", s.line)
	}
	if s.expect != nil && s.propose == nil {
		return Step{}, fmt.Errorf("line %d: expect is only valid on propose steps", s.line)
	}

	switch {
	case s.settings != nil:
		settings, err := convertSettings(s.settings)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepSettings, Line: s.line, Settings: settings}, nil
	case s.bitrate != nil:
		bps, err := convertBitrate(s.bitrate)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepBitrate, Line: s.line, BitrateBps: bps}, nil
	default:
		proposal, err := convertProposal(s.propose, s.expect)
		if err != nil {
			return Step{}, err
		}
		return Step{Kind: StepPropose, Line: s.line, Proposal: proposal}, nil
	}
}

func convertSettings(n *yaml.Node) (*encoder.Settings, error) {
	if isNull(n) {
		return nil, nil
	}
	var spec settingsSpec
	if err := n.Decode(&spec); err != nil {
		return nil, fmt.Errorf("settings: %w", err)
	}

	codec, err := encoder.ParseCodecType(spec.Codec)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	layers, err := convertLayers(spec.Layers)
	if err != nil {
		return nil, fmt.Errorf("line %d: layers: %w", n.Line, err)
	}
	spatial, err := convertLayers(spec.SpatialLayers)
	if err != nil {
		return nil, fmt.Errorf("line %d: spatial_layers: %w", n.Line, err)
	}
	if spatial == nil && codec == encoder.CodecVP9 {
		spatial = layers
	}

	settings := &encoder.Settings{
		Config: encoder.Config{Layers: layers},
		Codec: encoder.Codec{
			Type:             codec,
			SimulcastStreams: layers,
			SpatialLayers:    spatial,
		},
	}
	for _, l := range layers {
		if l.Active && l.Pixels() > settings.Codec.Width*settings.Codec.Height {
			settings.Codec.Width, settings.Codec.Height = l.Width, l.Height
		}
	}
	return settings, nil
}

func convertLayers(specs []layerSpec) ([]encoder.Layer, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	layers := make([]encoder.Layer, 0, len(specs))
	for i, s := range specs {
		l, err := s.convert()
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i, err)
		}
		layers = append(layers, l)
	}
	return layers, nil
}

func (s layerSpec) convert() (encoder.Layer, error) {
	l := encoder.Layer{Width: s.Width, Height: s.Height, Active: true}
	if s.Active != nil {
		l.Active = *s.Active
	}
	if s.Resolution != "" {
		if s.Width != 0 || s.Height != 0 {
			return l, fmt.Errorf("set resolution or width/height, not both")
		}
		w, h, err := util.ParseResolution(s.Resolution)
		if err != nil {
			return l, err
		}
		l.Width, l.Height = w, h
	}
	if l.Width <= 0 || l.Height <= 0 {
		return l, fmt.Errorf("layer size must be positive, got %dx%d", l.Width, l.Height)
	}

	for _, b := range []struct {
		value string
		dst   *int
	}{
		{s.MinBitrate, &l.MinBitrateBps},
		{s.TargetBitrate, &l.TargetBitrateBps},
		{s.MaxBitrate, &l.MaxBitrateBps},
	} {
		if b.value == "" {
			continue
		}
		bps, err := util.ParseBitrate(b.value)
		if err != nil {
			return l, err
		}
		*b.dst = int(bps)
	}
	return l, nil
}

func convertBitrate(n *yaml.Node) (*uint32, error) {
	if isNull(n) {
		return nil, nil
	}
	if n.Kind != yaml.ScalarNode {
		return nil, fmt.Errorf("line %d: bitrate must be a number, a string such as \"450k\", or null", n.Line)
	}
	bps, err := util.ParseBitrate(n.Value)
	if err != nil {
		return nil, fmt.Errorf("line %d: %w", n.Line, err)
	}
	return &bps, nil
}

func convertProposal(n, expect *yaml.Node) (Proposal, error) {
	var spec proposeSpec
	if isNull(n) {
		return Proposal{}, fmt.Errorf("line %d: propose must not be null", n.Line)
	}
	if err := n.Decode(&spec); err != nil {
		return Proposal{}, fmt.Errorf("propose: %w", err)
	}

	p := Proposal{Label: spec.Label}
	var err error
	if p.Before, err = spec.Before.convert(); err != nil {
		return Proposal{}, fmt.Errorf("line %d: before: %w", n.Line, err)
	}
	if p.After, err = spec.After.convert(); err != nil {
		return Proposal{}, fmt.Errorf("line %d: after: %w", n.Line, err)
	}
	if spec.Input != nil {
		p.Input.HasInput = true
		p.Input.FramesPerSecond = spec.Input.FPS
		if spec.Input.Resolution != "" {
			w, h, err := util.ParseResolution(spec.Input.Resolution)
			if err != nil {
				return Proposal{}, fmt.Errorf("line %d: input: %w", n.Line, err)
			}
			px := w * h
			p.Input.FrameSizePixels = &px
		}
	}

	if expect != nil {
		switch strings.ToLower(strings.TrimSpace(expect.Value)) {
		case "allow":
			p.Expect = ExpectAllow
		case "deny":
			p.Expect = ExpectDeny
		default:
			return Proposal{}, fmt.Errorf("line %d: expect must be allow or deny, got %q", expect.Line, expect.Value)
		}
	}
	return p, nil
}

func (s restrictionSpec) convert() (gate.Restrictions, error) {
	r := gate.Restrictions{TargetPixelsPerFrame: s.TargetPixels, MaxFrameRate: s.MaxFPS}
	switch {
	case s.MaxPixels != nil && s.MaxResolution != "":
		return r, fmt.Errorf("set max_pixels or max_resolution, not both")
	case s.MaxPixels != nil:
		if *s.MaxPixels < 0 {
			return r, fmt.Errorf("max_pixels must not be negative")
		}
		r.MaxPixelsPerFrame = s.MaxPixels
	case s.MaxResolution != "":
		w, h, err := util.ParseResolution(s.MaxResolution)
		if err != nil {
			return r, err
		}
		px := w * h
		r.MaxPixelsPerFrame = &px
	}
	return r, nil
}
