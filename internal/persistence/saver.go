package persistence

import (
	"log"
	"sync"
	"time"

	"redgo/internal/store"
)

// SavePoint is one entry of the dirty-count/interval trigger table, matching
// Redis's "save after N seconds if M keys changed" semantics.
type SavePoint struct {
	Seconds int
	Changes int64
}

// DefaultSavePoints is the standard Redis trigger table.
var DefaultSavePoints = []SavePoint{
	{Seconds: 900, Changes: 1},
	{Seconds: 300, Changes: 10},
	{Seconds: 60, Changes: 10000},
}

// Saver ticks once a second, checking the dirty-count/interval table against
// the keyspace's accumulated write count, and snapshots to Path whenever any
// rule fires. Grounded on the teacher's single-rule background-save ticker,
// generalized to the full multi-rule table.
type Saver struct {
	Path       string
	Keyspace   *store.Keyspace
	SavePoints []SavePoint

	mu             sync.Mutex
	lastSaveTime   time.Time
	stop           chan struct{}
	wg             sync.WaitGroup
}

// NewSaver builds a Saver with the default trigger table if points is nil.
func NewSaver(path string, ks *store.Keyspace, points []SavePoint) *Saver {
	if points == nil {
		points = DefaultSavePoints
	}
	return &Saver{
		Path:         path,
		Keyspace:     ks,
		SavePoints:   points,
		lastSaveTime: time.Now(),
		stop:         make(chan struct{}),
	}
}

// Start launches the background ticker goroutine. Call Stop to shut it down.
func (s *Saver) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.tick()
			case <-s.stop:
				return
			}
		}
	}()
}

func (s *Saver) tick() {
	s.mu.Lock()
	elapsed := time.Since(s.lastSaveTime)
	s.mu.Unlock()

	changes := s.Keyspace.DirtyCount()
	for _, point := range s.SavePoints {
		if changes >= point.Changes && elapsed >= time.Duration(point.Seconds)*time.Second {
			s.saveNow()
			return
		}
	}
}

func (s *Saver) saveNow() {
	entries := s.Keyspace.Snapshot()
	if err := Save(s.Path, entries); err != nil {
		log.Printf("persistence: background save failed: %v", err)
		return
	}
	s.Keyspace.ResetDirty()
	s.mu.Lock()
	s.lastSaveTime = time.Now()
	s.mu.Unlock()
	log.Printf("persistence: saved %d keys to %s", len(entries), s.Path)
}

// SaveNow forces an immediate snapshot, bypassing the trigger table. Used by
// graceful shutdown.
func (s *Saver) SaveNow() error {
	entries := s.Keyspace.Snapshot()
	if err := Save(s.Path, entries); err != nil {
		return err
	}
	s.Keyspace.ResetDirty()
	s.mu.Lock()
	s.lastSaveTime = time.Now()
	s.mu.Unlock()
	return nil
}

// Stop halts the background ticker and waits for it to exit.
func (s *Saver) Stop() {
	close(s.stop)
	s.wg.Wait()
}
