package velo

import (
	"fmt"
	"strings"
	"time"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// commitRecord is one history entry between two revision points.
type commitRecord struct {
	Subject string
	Hash    string
}

// commitsSince returns the commits from HEAD back to (excluding) sinceTag,
// oldest first. The tag must resolve; a release only asks for a range when
// a previous version tag actually exists.
func commitsSince(repo *git.Repository, sinceTag string) ([]commitRecord, error) {
	boundary, err := repo.ResolveRevision(plumbing.Revision(sinceTag))
	if err != nil {
		return nil, fmt.Errorf("resolving tag %s: %w", sinceTag, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := repo.Log(&git.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("reading history: %w", err)
	}
	defer iter.Close()

	var records []commitRecord
	err = iter.ForEach(func(c *object.Commit) error {
		if c.Hash == *boundary {
			return storer.ErrStop
		}
		subject, _, _ := strings.Cut(c.Message, "\n")
		records = append(records, commitRecord{
			Subject: strings.TrimSpace(subject),
			Hash:    c.Hash.String()[:7],
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}

	// Log order is newest first; notes list commits chronologically.
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

// noteSection is one rendered changelog category.
type noteSection struct {
	Title string
	Lines []string
}

// changelogCategories maps commit subject prefixes to section titles, in
// priority order: the first matching prefix wins. Unmatched subjects land in
// Other verbatim.
var changelogCategories = []struct {
	Title  string
	Prefix string
}{
	{"Features", "feat"},
	{"Fixes", "fix"},
	{"Performance", "perf"},
	{"Refactoring", "refactor"},
}

const otherSectionTitle = "Other"

// categorizeCommits buckets commits into sections, preserving history order
// within each section. Matching subjects have their category prefix
// stripped; everything else falls through to Other untouched.
func categorizeCommits(records []commitRecord) []noteSection {
	sections := make([]noteSection, len(changelogCategories)+1)
	for i, cat := range changelogCategories {
		sections[i].Title = cat.Title
	}
	sections[len(changelogCategories)].Title = otherSectionTitle

	for _, rec := range records {
		placed := false
		for i, cat := range changelogCategories {
			if rest, ok := strings.CutPrefix(rec.Subject, cat.Prefix+":"); ok {
				line := fmt.Sprintf("%s (%s)", strings.TrimSpace(rest), rec.Hash)
				sections[i].Lines = append(sections[i].Lines, line)
				placed = true
				break
			}
		}
		if !placed {
			line := fmt.Sprintf("%s (%s)", rec.Subject, rec.Hash)
			last := len(sections) - 1
			sections[last].Lines = append(sections[last].Lines, line)
		}
	}

	var nonEmpty []noteSection
	for _, s := range sections {
		if len(s.Lines) > 0 {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return nonEmpty
}

// renderReleaseNotes produces the Markdown release notes document. A release
// without a prior version tag has no commit range and therefore no sections,
// just the header.
func renderReleaseNotes(version string, date time.Time, sections []noteSection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# VelocityDB %s\n\n", version)
	fmt.Fprintf(&b, "Released %s.\n", date.Format("2006-01-02"))

	for _, s := range sections {
		fmt.Fprintf(&b, "\n## %s\n\n", s.Title)
		for _, line := range s.Lines {
			fmt.Fprintf(&b, "- %s\n", line)
		}
	}
	return b.String()
}
