package scheduler

import (
	"github.com/rohmanhakim/talk-parser/internal/storage"
	"github.com/rohmanhakim/talk-parser/internal/thread"
)

// PageOutcome is the result of running one page through the pipeline.
type PageOutcome struct {
	Title       string
	Result      thread.Result
	WriteResult storage.WriteResult
}

type RunExecution struct {
	Pages        []PageOutcome
	WriteResults []storage.WriteResult
	TotalErrors  int
}

// TotalTopics sums the topics of every processed page.
func (r RunExecution) TotalTopics() int {
	total := 0
	for _, p := range r.Pages {
		total += len(p.Result.Topics)
	}
	return total
}
