// Package ai provides advisory keep-recommendations for duplicate sets.
//
// The analyzer is purely additive: it inspects a finished duplicate set
// and suggests which member to retain. It never mutates files, and every
// failure path (no API key, timeout, malformed response) degrades to
// "no recommendation" rather than an error visible in the result list.
//
// Two layers produce a recommendation:
//
//  1. Heuristic scoring - filename version indicators ("v2", "final",
//     "copy", "backup", dates) combined with modification time recency.
//     Always available, no network.
//  2. Model refinement - when an API key is configured, the heuristic
//     result plus file metadata is sent to a chat-completion model whose
//     answer replaces the heuristic one if it validates.
package ai

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"simpletools/internal/types"
)

// Heuristic confidence levels. Version-indicator matches justify more
// confidence than mtime alone.
const (
	confidenceMtimeOnly = 0.5
	confidenceIndicator = 0.7
)

var (
	versionNumberRegex = regexp.MustCompile(`(?i)v?(\d+)(?:\.(\d+))?`)
	dateRegex          = regexp.MustCompile(`\d{4}[-_]?\d{2}[-_]?\d{2}`)
)

// VersionAnalyzer recommends which member of a duplicate set to keep.
type VersionAnalyzer struct {
	client *Client // nil = heuristic only
	log    *logrus.Entry
}

// NewVersionAnalyzer creates an analyzer. client may be nil, in which
// case only the filename/mtime heuristic runs.
func NewVersionAnalyzer(client *Client, log *logrus.Entry) *VersionAnalyzer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &VersionAnalyzer{client: client, log: log}
}

// fileVersion is the per-member scoring input.
type fileVersion struct {
	path      string
	modTime   time.Time
	indicator string // version marker extracted from the filename, "" if none
	score     float64
}

// Recommend scores the set members and optionally refines the pick with
// the model. files must hold at least two paths.
func (a *VersionAnalyzer) Recommend(ctx context.Context, files []string) (*types.Recommendation, error) {
	if len(files) < 2 {
		return nil, fmt.Errorf("need at least 2 files, got %d", len(files))
	}

	versions := collectVersions(files)
	if len(versions) == 0 {
		return nil, fmt.Errorf("no set member could be inspected")
	}

	rec := pickBest(versions)

	if a.client != nil {
		refined, err := a.client.refine(ctx, versions, rec)
		if err != nil {
			// Model refinement is best-effort; keep the heuristic pick.
			a.log.WithError(err).Debug("model refinement failed, using heuristic recommendation")
			return rec, nil
		}
		return refined, nil
	}

	return rec, nil
}

// collectVersions stats each file and scores it. Unstattable members are
// dropped; they can still be kept by the user, just never recommended.
func collectVersions(files []string) []fileVersion {
	versions := make([]fileVersion, 0, len(files))
	for _, path := range files {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		v := fileVersion{
			path:      path,
			modTime:   info.ModTime(),
			indicator: extractIndicator(filepath.Base(path)),
		}
		v.score = scoreVersion(v)
		versions = append(versions, v)
	}
	return versions
}

// extractIndicator pulls a version marker out of a filename: an explicit
// version number, a known keyword, or a date.
func extractIndicator(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))

	for _, keyword := range []string{"final", "latest", "new", "old", "backup", "copy"} {
		if strings.Contains(strings.ToLower(base), keyword) {
			return keyword
		}
	}
	if m := dateRegex.FindString(base); m != "" {
		return m
	}
	if m := versionNumberRegex.FindString(base); m != "" {
		return m
	}
	return ""
}

// scoreVersion assigns a keep-priority score. Higher means more likely
// the copy worth keeping.
func scoreVersion(v fileVersion) float64 {
	// Mtime recency, normalized so newer files score slightly higher.
	score := float64(v.modTime.Unix()) / 1e10 * 0.3

	switch ind := strings.ToLower(v.indicator); {
	case ind == "final" || ind == "latest":
		score += 1.0
	case ind == "new":
		score += 0.8
	case ind == "old":
		score -= 0.3
	case ind == "backup" || ind == "copy":
		score -= 0.5
	case ind != "":
		if m := versionNumberRegex.FindStringSubmatch(ind); m != nil {
			major := atoiSafe(m[1])
			minor := atoiSafe(m[2])
			score += float64(major*10+minor) / 100.0
		}
	}

	return score
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// pickBest returns the highest-scoring member as a recommendation. Ties
// go to the earlier member, matching set ordering.
func pickBest(versions []fileVersion) *types.Recommendation {
	best := versions[0]
	hasIndicator := best.indicator != ""
	for _, v := range versions[1:] {
		if v.indicator != "" {
			hasIndicator = true
		}
		if v.score > best.score {
			best = v
		}
	}

	confidence := confidenceMtimeOnly
	reason := "most recently modified"
	if hasIndicator {
		confidence = confidenceIndicator
		reason = "filename version markers and modification time"
	}
	return &types.Recommendation{
		Path:       best.path,
		Confidence: confidence,
		Reason:     reason,
	}
}
