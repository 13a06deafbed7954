package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/atlastravel/atlas/internal/domain"
)

// profileFile serializes writers to the single shared profile document.
// In-process writers queue on the mutex; writers in other processes are
// excluded by an O_EXCL lock file around the atomic rename. Readers never
// lock: the rename guarantees they always see a fully-written version.
type profileFile struct {
	mu      sync.Mutex
	path    string
	lockDir string
}

func newProfileFile(dataDir string) *profileFile {
	return &profileFile{
		path:    filepath.Join(dataDir, "profile.json"),
		lockDir: filepath.Join(dataDir, "profile.lock"),
	}
}

// LoadProfile reads the user profile, returning defaults when none has
// been saved yet.
func (s *Store) LoadProfile() (domain.UserProfile, error) {
	var profile domain.UserProfile
	err := readJSON(s.profile.path, &profile)
	if err == ErrNotFound {
		return domain.DefaultProfile(), nil
	}
	if err != nil {
		return domain.UserProfile{}, err
	}
	if profile.PreferredPace == "" {
		profile.PreferredPace = domain.PaceModerate
	}
	return profile, nil
}

// SaveProfile writes the profile under the writer lock.
func (s *Store) SaveProfile(profile domain.UserProfile) error {
	s.profile.mu.Lock()
	defer s.profile.mu.Unlock()

	unlock, err := s.profile.acquireFileLock()
	if err != nil {
		return err
	}
	defer unlock()

	if err := writeAtomic(s.profile.path, profile); err != nil {
		return fmt.Errorf("saving profile: %w", err)
	}
	return nil
}

const (
	lockRetryInterval = 25 * time.Millisecond
	lockTimeout       = 5 * time.Second
	lockStaleAfter    = 30 * time.Second
)

// acquireFileLock takes the cross-process advisory lock by creating the
// lock directory. Stale locks left by a crashed process are broken after
// lockStaleAfter.
func (p *profileFile) acquireFileLock() (func(), error) {
	deadline := time.Now().Add(lockTimeout)
	for {
		err := os.Mkdir(p.lockDir, 0o755)
		if err == nil {
			return func() { os.Remove(p.lockDir) }, nil
		}
		if !os.IsExist(err) {
			return nil, fmt.Errorf("acquiring profile lock: %w", err)
		}

		if info, statErr := os.Stat(p.lockDir); statErr == nil {
			if time.Since(info.ModTime()) > lockStaleAfter {
				os.Remove(p.lockDir)
				continue
			}
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("profile lock held too long by another process")
		}
		time.Sleep(lockRetryInterval)
	}
}
