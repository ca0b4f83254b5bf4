package verify

import (
	"path"
	"strings"

	"github.com/gitter-badger/cloudflow/domain"
	"github.com/gitter-badger/cloudflow/names"
)

// verifyVolumeMounts implements spec §4.5b.
func verifyVolumeMounts(mounts []domain.VolumeMountDescriptor) []Problem {
	var problems []Problem

	seenNames := map[string]bool{}
	seenPaths := map[string]bool{}
	for _, m := range mounts {
		if seenNames[m.Name] {
			problems = append(problems, DuplicateVolumeMountName{Name: m.Name})
		}
		seenNames[m.Name] = true

		if seenPaths[m.Path] {
			problems = append(problems, DuplicateVolumeMountPath{Path: m.Path})
		}
		seenPaths[m.Path] = true

		if !names.IsValidVolumeMountName(m.Name) {
			problems = append(problems, InvalidVolumeMountName{Name: m.Name})
		}

		switch {
		case m.Path == "":
			problems = append(problems, EmptyVolumeMountPath{Name: m.Name})
		case !path.IsAbs(m.Path):
			problems = append(problems, NonAbsoluteVolumeMountPath{Name: m.Name})
		case hasBacktrackSegment(m.Path):
			problems = append(problems, BacktrackingVolumeMountPath{Name: m.Name})
		}

		if !domain.ValidAccessModes[m.AccessMode] {
			problems = append(problems, InvalidVolumeMountAccessMode{Name: m.Name, Mode: string(m.AccessMode)})
		}
	}
	return problems
}

func hasBacktrackSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return true
		}
	}
	return false
}
