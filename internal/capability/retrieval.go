package capability

import (
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"nion/internal/knowledge"
	"nion/internal/registry"
)

// KnowledgeRetrieval looks up the message's project in the knowledge
// store. Known projects render their stored record verbatim; unknown but
// non-empty project ids get a synthesized, plausible-looking record
// rather than a failure; messages without a project get an explicit
// no-context pair of lines.
type KnowledgeRetrieval struct {
	store  knowledge.Store
	rng    *rand.Rand
	now    func() time.Time
	logger *zap.Logger
}

// NewKnowledgeRetrieval builds the retrieval capability. rng may be nil,
// in which case a time-seeded source is used; tests inject a fixed seed.
func NewKnowledgeRetrieval(store knowledge.Store, rng *rand.Rand, logger *zap.Logger) *KnowledgeRetrieval {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &KnowledgeRetrieval{store: store, rng: rng, now: time.Now, logger: logger}
}

func (k *KnowledgeRetrieval) Name() string { return registry.CapKnowledgeRetrieval }

func (k *KnowledgeRetrieval) Execute(req Request) []string {
	if req.Project == "" {
		return []string{
			"No project context available",
			"Unable to retrieve specific project details",
		}
	}

	rec, ok, err := k.store.Lookup(req.Project)
	if err != nil {
		// Store trouble degrades to a synthesized record; retrieval must
		// never fail a run.
		k.logger.Warn("knowledge store lookup failed, synthesizing record",
			zap.String("project", req.Project), zap.Error(err))
		ok = false
	}
	if !ok {
		rec = k.synthesize(req.Project)
	}

	return []string{
		fmt.Sprintf("Project: %s", rec.ID),
		fmt.Sprintf("Current Release Date: %s", rec.ReleaseDate),
		fmt.Sprintf("Days Remaining: %d", rec.DaysRemaining),
		fmt.Sprintf("Code Freeze: %s", rec.CodeFreeze),
		fmt.Sprintf("Current Progress: %d%%", rec.Progress),
		fmt.Sprintf("Team Capacity: %d%% utilized", rec.Capacity),
		fmt.Sprintf("Engineering Manager: %s", rec.EngManager),
		fmt.Sprintf("Tech Lead: %s", rec.TechLead),
	}
}

var (
	synthManagers = []string{"Alex Kim", "Sarah Johnson", "Mike Chen"}
	synthLeads    = []string{"David Park", "Emily Zhang", "Robert Liu"}
)

// synthesize fabricates a plausible record for a project the store does
// not know about. Values are random within fixed ranges, so runs that hit
// this path are exempt from the idempotence property.
func (k *KnowledgeRetrieval) synthesize(projectID string) knowledge.ProjectRecord {
	return knowledge.ProjectRecord{
		ID:            projectID,
		ReleaseDate:   k.randomFutureDate(30),
		CodeFreeze:    k.randomFutureDate(20),
		DaysRemaining: 10 + k.rng.Intn(21),
		Progress:      60 + k.rng.Intn(31),
		Capacity:      70 + k.rng.Intn(26),
		EngManager:    synthManagers[k.rng.Intn(len(synthManagers))],
		TechLead:      synthLeads[k.rng.Intn(len(synthLeads))],
	}
}

func (k *KnowledgeRetrieval) randomFutureDate(daysAhead int) string {
	d := k.now().AddDate(0, 0, 1+k.rng.Intn(daysAhead))
	return d.Format("Jan 02")
}
