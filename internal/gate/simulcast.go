package gate

import "github.com/five82/resgate/internal/encoder"

// IsSimulcast reports whether the encoder config runs more than one layer.
// With only the lowest layer active, simulcast and singlecast look the same;
// that case is treated as simulcast.
func IsSimulcast(cfg encoder.Config) bool {
	if len(cfg.Layers) <= 1 {
		return false
	}
	return cfg.NumActiveLayers() > 1 || cfg.Layers[0].Active
}
