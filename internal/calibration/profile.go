package calibration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/agbru/friedmann/internal/cosmo"
)

// DefaultProfileFileName is the profile file name in the home directory.
const DefaultProfileFileName = ".friedmann_calibration.json"

// CurrentProfileVersion is bumped whenever the integrator changes in a way
// that invalidates stored results.
const CurrentProfileVersion = 1

// CalibrationProfile is the stored outcome of one study.
type CalibrationProfile struct {
	Model     cosmo.Model   `json:"model"`
	Options   cosmo.Options `json:"options"`
	Quantity  string        `json:"quantity"`
	Tolerance float64       `json:"tolerance"`
	Epsilon   float64       `json:"epsilon"`
	Converged bool          `json:"converged"`

	CalibratedAt    time.Time `json:"calibrated_at"`
	CalibrationTime string    `json:"calibration_time"`
	GoVersion       string    `json:"go_version"`
}

// NewProfile records res. opts are the integrator settings of the study.
func NewProfile(res *Result, opts cosmo.Options) CalibrationProfile {
	opts.Epsilon = 0
	return CalibrationProfile{
		Model:           res.Model,
		Options:         opts,
		Quantity:        res.Quantity,
		Tolerance:       res.Tolerance,
		Epsilon:         res.Epsilon,
		Converged:       res.Converged,
		CalibratedAt:    time.Now(),
		CalibrationTime: res.Duration.Round(time.Millisecond).String(),
		GoVersion:       runtime.Version(),
	}
}

// Matches reports whether the profile was computed for the densities and
// equation of state of m with the integrator settings opts. The name, H0
// and ε do not take part: a(t) in units of 1/H0 does not depend on them.
func (p CalibrationProfile) Matches(m cosmo.Model, opts cosmo.Options) bool {
	opts.Epsilon = 0
	return p.Model.OmegaR == m.OmegaR &&
		p.Model.OmegaM == m.OmegaM &&
		p.Model.OmegaL == m.OmegaL &&
		p.Model.W == m.W &&
		p.Options == opts
}

// String returns a one-line description.
func (p CalibrationProfile) String() string {
	status := "converged"
	if !p.Converged {
		status = "not converged"
	}
	return fmt.Sprintf("%s: ε=%g (%s, %s tolerance %g), calibrated %s in %s",
		p.Model.Name, p.Epsilon, status, p.Quantity, p.Tolerance,
		p.CalibratedAt.Format(time.RFC3339), p.CalibrationTime)
}

// ProfileFile is the JSON document holding every stored study.
type ProfileFile struct {
	ProfileVersion int                  `json:"profile_version"`
	Profiles       []CalibrationProfile `json:"profiles"`
}

// NewProfileFile returns an empty document of the current version.
func NewProfileFile() *ProfileFile {
	return &ProfileFile{ProfileVersion: CurrentProfileVersion}
}

// IsValid reports whether the document was written by a compatible
// integrator.
func (f *ProfileFile) IsValid() bool {
	return f != nil && f.ProfileVersion == CurrentProfileVersion
}

// Lookup returns the profile matching m and opts.
func (f *ProfileFile) Lookup(m cosmo.Model, opts cosmo.Options) (CalibrationProfile, bool) {
	if !f.IsValid() {
		return CalibrationProfile{}, false
	}
	for _, p := range f.Profiles {
		if p.Matches(m, opts) {
			return p, true
		}
	}
	return CalibrationProfile{}, false
}

// Put stores p, replacing the profile of the same model and settings.
func (f *ProfileFile) Put(p CalibrationProfile) {
	for i, q := range f.Profiles {
		if q.Matches(p.Model, p.Options) {
			f.Profiles[i] = p
			return
		}
	}
	f.Profiles = append(f.Profiles, p)
}

// Save writes the document to path atomically.
func (f *ProfileFile) Save(path string) error {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode calibration profile: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create profile directory: %w", err)
		}
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write calibration profile: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to write calibration profile: %w", err)
	}
	return nil
}

func loadProfileFile(path string) (*ProfileFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f ProfileFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid calibration profile %s: %w", path, err)
	}
	return &f, nil
}

// LoadOrCreateProfileFile reads the document at path. A missing, unreadable
// or outdated file yields an empty document and loaded = false.
func LoadOrCreateProfileFile(path string) (f *ProfileFile, loaded bool) {
	f, err := loadProfileFile(path)
	if err != nil || !f.IsValid() {
		return NewProfileFile(), false
	}
	return f, true
}

// GetDefaultProfilePath returns ~/.friedmann_calibration.json, or the file
// name alone when the home directory is unknown.
func GetDefaultProfilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultProfileFileName
	}
	return filepath.Join(home, DefaultProfileFileName)
}
