package dirsync

import (
	"fmt"
	"strings"
)

// Policy decides what happens when a destination file already exists.
type Policy int

const (
	// PolicyFail refuses to replace an existing file and aborts the sync.
	PolicyFail Policy = iota
	// PolicyOverwrite truncates and rewrites the existing file.
	PolicyOverwrite
	// PolicySkip leaves the existing file untouched.
	PolicySkip
)

var policyNames = map[Policy]string{
	PolicyFail:      "fail",
	PolicyOverwrite: "overwrite",
	PolicySkip:      "skip",
}

// String returns the config/flag name of the policy.
func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy maps a config/flag value to a Policy. The empty string
// selects PolicyFail.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail":
		return PolicyFail, nil
	case "overwrite":
		return PolicyOverwrite, nil
	case "skip":
		return PolicySkip, nil
	}
	return PolicyFail, fmt.Errorf("unknown overwrite policy %q (want fail, overwrite or skip)", s)
}

// Set implements pflag.Value so a Policy can be bound to a flag directly.
func (p *Policy) Set(s string) error {
	parsed, err := ParsePolicy(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Type implements pflag.Value.
func (p *Policy) Type() string {
	return "policy"
}
