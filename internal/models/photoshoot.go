package models

// ShootResult is one generated product shot: one instance per
// (angle, scene) pair selected for the session.
type ShootResult struct {
	URL   string `json:"url"` // data URI
	Angle string `json:"angle"`
	Scene string `json:"scene"`
}

// CloneShots deep-copies a photoshoot result set.
func CloneShots(shots []ShootResult) []ShootResult {
	if shots == nil {
		return nil
	}
	out := make([]ShootResult, len(shots))
	copy(out, shots)
	return out
}
