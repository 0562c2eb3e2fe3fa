package catalog

import (
	"strings"

	"github.com/armon/go-radix"
)

// subjectIndex provides prefix lookups over subject codes, feeding the
// filter panel's department autocomplete. The index is populated during
// catalog construction and read-only afterwards, so concurrent lookups
// need no locking.
type subjectIndex struct {
	tree *radix.Tree // lowercased subject -> canonical subject
}

func newSubjectIndex() *subjectIndex {
	return &subjectIndex{tree: radix.New()}
}

func (si *subjectIndex) insert(subject string) {
	if subject == "" {
		return
	}
	si.tree.Insert(strings.ToLower(subject), subject)
}

// withPrefix returns the canonical subjects whose code starts with the
// given prefix, in lexicographic order. An empty prefix returns every
// subject.
func (si *subjectIndex) withPrefix(prefix string) []string {
	subjects := []string{}
	si.tree.WalkPrefix(strings.ToLower(prefix), func(_ string, v interface{}) bool {
		subjects = append(subjects, v.(string))
		return false
	})
	return subjects
}
