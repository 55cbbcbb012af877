package datasets

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"mutations/api/models"
	"mutations/api/models/indexes"
	"mutations/api/services/grouping"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Loader fetches the raw mutation calls of a study, optionally limited
// to some samples
type Loader interface {
	LoadMutations(ctx context.Context, studyId string, sampleIds []string) ([]indexes.Mutation, error)
}

// Snapshot is an immutable, grouped view of one study's mutations.
type Snapshot struct {
	Id        uuid.UUID
	StudyId   string
	SampleIds []string
	Mutations []indexes.Mutation
	Rows      [][]indexes.Mutation
	LoadedAt  time.Time
}

type (
	DatasetService struct {
		Initialized bool
		Config      *models.Config
		Loader      Loader

		snapshots    map[string]*Snapshot
		snapshotsMux sync.RWMutex
		scheduler    *gocron.Scheduler
	}
)

func NewDatasetService(cfg *models.Config, loader Loader) *DatasetService {
	return &DatasetService{
		Initialized: false,
		Config:      cfg,
		Loader:      loader,
		snapshots:   map[string]*Snapshot{},
	}
}

func (ds *DatasetService) Init() error {
	// initialization if necessary
	if ds.Initialized || ds.Config.Datasets.RefreshIntervalMinutes <= 0 {
		return nil
	}

	// setup cron job
	ds.scheduler = gocron.NewScheduler(time.UTC)

	// periodically rebuild every cached snapshot
	_, err := ds.scheduler.Every(ds.Config.Datasets.RefreshIntervalMinutes).Minutes().WaitForSchedule().Do(func() {
		fmt.Printf("[%s] - Refreshing %d cached datasets..\n", time.Now(), ds.Len())

		if err := ds.Refresh(context.Background()); err != nil {
			fmt.Printf("[%s] - Error refreshing datasets : %v..\n", time.Now(), err)
		}
	})
	if err != nil {
		return fmt.Errorf("scheduling dataset refresh: %w", err)
	}

	ds.scheduler.StartAsync()

	ds.Initialized = true
	fmt.Println("Dataset Service Initialized ..")
	return nil
}

func (ds *DatasetService) Stop() {
	if ds.scheduler != nil {
		ds.scheduler.Stop()
	}
}

func (ds *DatasetService) Len() int {
	ds.snapshotsMux.RLock()
	defer ds.snapshotsMux.RUnlock()
	return len(ds.snapshots)
}

// Invalidate drops every cached snapshot of a study and returns how many
func (ds *DatasetService) Invalidate(studyId string) int {
	ds.snapshotsMux.Lock()
	defer ds.snapshotsMux.Unlock()

	dropped := 0
	for k, v := range ds.snapshots {
		if v.StudyId == studyId {
			delete(ds.snapshots, k)
			dropped++
		}
	}
	return dropped
}

// Get returns the cached snapshot for a study and sample selection,
// loading and grouping it on a miss.
func (ds *DatasetService) Get(ctx context.Context, studyId string, sampleIds []string) (*Snapshot, error) {
	key := cacheKey(studyId, sampleIds)

	ds.snapshotsMux.RLock()
	snapshot, exists := ds.snapshots[key]
	ds.snapshotsMux.RUnlock()
	if exists {
		return snapshot, nil
	}

	snapshot, err := ds.load(ctx, studyId, sampleIds)
	if err != nil {
		return nil, err
	}

	ds.snapshotsMux.Lock()
	ds.evictOldest()
	ds.snapshots[key] = snapshot
	ds.snapshotsMux.Unlock()

	return snapshot, nil
}

/*
	Rebuilds every cached snapshot concurrently.

	Snapshots that reloaded successfully replace their predecessors
	whole; readers holding an older snapshot keep a consistent view.
	The first failure is returned.
*/
func (ds *DatasetService) Refresh(ctx context.Context) error {
	ds.snapshotsMux.RLock()
	current := make(map[string]*Snapshot, len(ds.snapshots))
	for k, v := range ds.snapshots {
		current[k] = v
	}
	ds.snapshotsMux.RUnlock()

	refreshed := map[string]*Snapshot{}
	refreshedMux := sync.Mutex{}

	g, gctx := errgroup.WithContext(ctx)
	for key, snapshot := range current {
		key, snapshot := key, snapshot
		g.Go(func() error {
			reloaded, err := ds.load(gctx, snapshot.StudyId, snapshot.SampleIds)
			if err != nil {
				return fmt.Errorf("refreshing study '%s': %w", snapshot.StudyId, err)
			}

			refreshedMux.Lock()
			refreshed[key] = reloaded
			refreshedMux.Unlock()
			return nil
		})
	}
	err := g.Wait()

	ds.snapshotsMux.Lock()
	for key, snapshot := range refreshed {
		ds.snapshots[key] = snapshot
	}
	ds.snapshotsMux.Unlock()

	return err
}

func (ds *DatasetService) load(ctx context.Context, studyId string, sampleIds []string) (*Snapshot, error) {
	mutations, err := ds.Loader.LoadMutations(ctx, studyId, sampleIds)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(sampleIds))
	copy(ids, sampleIds)

	return &Snapshot{
		Id:        uuid.New(),
		StudyId:   studyId,
		SampleIds: ids,
		Mutations: mutations,
		Rows:      grouping.GroupMutations(mutations),
		LoadedAt:  time.Now(),
	}, nil
}

// evictOldest makes room for one more snapshot; callers hold the lock
func (ds *DatasetService) evictOldest() {
	max := ds.Config.Datasets.MaxCachedStudies
	if max <= 0 {
		return
	}

	for len(ds.snapshots) >= max {
		var (
			oldestKey string
			oldest    *Snapshot
		)
		for k, v := range ds.snapshots {
			if oldest == nil || v.LoadedAt.Before(oldest.LoadedAt) {
				oldestKey, oldest = k, v
			}
		}
		delete(ds.snapshots, oldestKey)
	}
}

func cacheKey(studyId string, sampleIds []string) string {
	return studyId + "|" + strings.Join(sampleIds, ",")
}
