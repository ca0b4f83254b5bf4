// Package names implements the character-class and length rules for streamlet
// names, class names, port names and the derived Kubernetes-style names used
// throughout a blueprint.
package names

import (
	"regexp"
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"k8s.io/apimachinery/pkg/util/validation"
)

const (
	// MaxRefName is the maximum length of a streamlet ref name or port name.
	MaxRefName = 253
	// MaxVolumeMountName is the maximum length of a volume mount name.
	MaxVolumeMountName = 63
	// MaxAppID is the maximum length of a normalized application id.
	MaxAppID = 63
	// MaxSecretName is the maximum length of a derived secret name.
	MaxSecretName = 253
)

var (
	refNameRe   = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	classSegRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	firstSegRe  = regexp.MustCompile(`^[A-Za-z]`)
	disallowed  = regexp.MustCompile(`[^a-z0-9-]`)
	dashRun     = regexp.MustCompile(`-{2,}`)
	stripMarks  = runes.Remove(runes.In(norm.Mn))
	diacriticTr = transform.Chain(norm.NFD, stripMarks, norm.NFC)
)

// IsValidRefName reports whether s is a legal streamlet ref name or port name:
// ^[a-z0-9][a-z0-9-]*$ and at most MaxRefName characters.
func IsValidRefName(s string) bool {
	return len(s) > 0 && len(s) <= MaxRefName && refNameRe.MatchString(s)
}

// IsValidPortName is an alias of IsValidRefName — port names share the same grammar.
func IsValidPortName(s string) bool {
	return IsValidRefName(s)
}

// IsValidVolumeMountName reports whether s is a legal DNS-1123 label of at
// most MaxVolumeMountName characters.
func IsValidVolumeMountName(s string) bool {
	if len(s) == 0 || len(s) > MaxVolumeMountName {
		return false
	}
	return len(validation.IsDNS1123Label(s)) == 0
}

// IsValidClassName reports whether s is a dotted-segment identifier: segments
// matching [A-Za-z_][A-Za-z0-9_]* joined by '.', with the first segment
// starting with a letter.
func IsValidClassName(s string) bool {
	if s == "" {
		return false
	}
	segments := strings.Split(s, ".")
	for i, seg := range segments {
		if !classSegRe.MatchString(seg) {
			return false
		}
		if i == 0 && !firstSegRe.MatchString(seg) {
			return false
		}
	}
	return true
}

// Truncate cuts s to at most n characters and strips any trailing '-'.
func Truncate(s string, n int) string {
	if len(s) > n {
		s = s[:n]
	}
	return strings.TrimRight(s, "-")
}

// NormalizeAppID implements the appId normalization algorithm of spec §4.1:
// lowercase, strip diacritics, replace disallowed characters with '-',
// collapse dash runs, truncate to MaxAppID, then trim the leading/trailing
// '-' that truncation may have exposed. The trim must come after the
// truncate, not before (spec §8 S6): truncating first lets the cut window
// land mid-string and end on a '-', which the final trim then strips,
// matching the real cloudflow behavior. Returns ("", false) if the result is
// empty.
func NormalizeAppID(id string) (string, bool) {
	lowered := strings.ToLower(id)

	stripped, _, err := transform.String(diacriticTr, lowered)
	if err != nil {
		stripped = lowered
	}

	replaced := disallowed.ReplaceAllString(stripped, "-")
	collapsed := dashRun.ReplaceAllString(replaced, "-")

	truncated := collapsed
	if len(truncated) > MaxAppID {
		truncated = truncated[:MaxAppID]
	}
	trimmed := strings.Trim(truncated, "-")

	if trimmed == "" {
		return "", false
	}
	return trimmed, true
}

// SecretName derives a cluster resource name from a streamlet ref name: the
// name truncated to MaxSecretName characters with any trailing dash removed.
func SecretName(refName string) string {
	return Truncate(refName, MaxSecretName)
}

// DeploymentName derives the stable "<appId>.<refName>" deployment name.
func DeploymentName(appID, refName string) string {
	return appID + "." + refName
}
