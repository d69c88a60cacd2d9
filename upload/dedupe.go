package upload

import (
	"log/slog"

	"github.com/poiesic/docindex/core"
)

// GroupResolver decides which members of a duplicate group to keep.
// The group's tasks are in original batch order; implementations return a
// non-empty subset (the CLI supplies an interactive prompt, the default
// keeps the first).
type GroupResolver interface {
	Resolve(groupNum int, group core.DuplicateGroup) []core.FileTask
}

type keepFirstResolver struct{}

func (keepFirstResolver) Resolve(_ int, group core.DuplicateGroup) []core.FileTask {
	return group.Tasks[:1]
}

// KeepFirstResolver returns the non-interactive policy: from each duplicate
// group, keep exactly the first file in original batch order.
func KeepFirstResolver() GroupResolver {
	return keepFirstResolver{}
}

// DetectDuplicates hashes every task and groups tasks by content digest,
// returning only groups with two or more members, ordered by first
// occurrence. Tasks that cannot be hashed are excluded from grouping
// (treated as unique) with a warning; they still proceed to upload.
// Returned tasks carry their content hash where one was computed.
func DetectDuplicates(tasks []core.FileTask, logger *slog.Logger) ([]core.FileTask, []core.DuplicateGroup) {
	if logger == nil {
		logger = slog.Default()
	}

	hashed := make([]core.FileTask, len(tasks))
	byHash := make(map[string][]core.FileTask)
	var hashOrder []string

	for i, task := range tasks {
		digest, err := HashFile(task.Path)
		if err != nil {
			logger.Warn("could not hash file, treating as unique",
				"file", task.DisplayName, "err", err)
			hashed[i] = task
			continue
		}
		task.ContentHash = digest
		hashed[i] = task

		if _, seen := byHash[digest]; !seen {
			hashOrder = append(hashOrder, digest)
		}
		byHash[digest] = append(byHash[digest], task)
	}

	var groups []core.DuplicateGroup
	for _, digest := range hashOrder {
		if members := byHash[digest]; len(members) > 1 {
			groups = append(groups, core.DuplicateGroup{Hash: digest, Tasks: members})
		}
	}

	return hashed, groups
}

// Deduplicate reduces a batch to the files that should actually upload.
// Files outside any duplicate group are always kept, in original order;
// each group is then settled by the resolver. A nil resolver applies the
// keep-first policy.
func Deduplicate(tasks []core.FileTask, resolver GroupResolver, logger *slog.Logger) ([]core.FileTask, []core.DuplicateGroup) {
	hashed, groups := DetectDuplicates(tasks, logger)
	if len(groups) == 0 {
		return hashed, nil
	}
	if resolver == nil {
		resolver = KeepFirstResolver()
	}

	duplicate := make(map[string]bool)
	for _, group := range groups {
		for _, task := range group.Tasks {
			duplicate[task.Path] = true
		}
	}

	var keep []core.FileTask
	for _, task := range hashed {
		if !duplicate[task.Path] {
			keep = append(keep, task)
		}
	}
	for i, group := range groups {
		keep = append(keep, resolver.Resolve(i+1, group)...)
	}

	return keep, groups
}
