package contracts

import (
	"fmt"
	"regexp"
	"strings"
)

var digestRegex = regexp.MustCompile(`^sha256:[a-f0-9]{64}$`)

// ImageReference is a container image pinned by content digest; the name is
// for humans, equality is defined solely on the digest so two runs of the
// same reference are guaranteed to observe the same environment
type ImageReference struct {
	Name   string `json:"name" yaml:"name"`
	Digest string `json:"digest" yaml:"digest"`
}

// ParseImageReference parses a name@sha256:<hex> reference; references without
// a content digest are rejected to keep runs reproducible
func ParseImageReference(reference string) (ImageReference, error) {

	parts := strings.SplitN(reference, "@", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ImageReference{}, fmt.Errorf("Image reference '%v' is not pinned by digest, use <name>@sha256:<hex>", reference)
	}

	if !digestRegex.MatchString(parts[1]) {
		return ImageReference{}, fmt.Errorf("Image reference '%v' has an invalid digest '%v'", reference, parts[1])
	}

	return ImageReference{
		Name:   parts[0],
		Digest: parts[1],
	}, nil
}

// String renders the canonical name@digest form passed to the container runtime
func (ir ImageReference) String() string {
	return fmt.Sprintf("%v@%v", ir.Name, ir.Digest)
}

// Equals compares image references on digest alone
func (ir ImageReference) Equals(other ImageReference) bool {
	return ir.Digest == other.Digest
}

// IsZero returns true for the empty reference
func (ir ImageReference) IsZero() bool {
	return ir.Name == "" && ir.Digest == ""
}
