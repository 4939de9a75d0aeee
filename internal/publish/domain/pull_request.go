package domain

import "strconv"

// NoPRRef labels commits made outside a pull request.
const NoPRRef = "ci"

// PRContext holds the repository coordinates the pipeline runs against.
// Owner and Repo point at the head repository when the run belongs to a
// pull request, so uploads land on the contributor's branch for forks.
type PRContext struct {
	Owner    string
	Repo     string
	Branch   string
	PRNumber int
	HasPR    bool
}

// CommitRef returns the PR number as a string, or NoPRRef when the run
// is not attached to a pull request.
func (c PRContext) CommitRef() string {
	if !c.HasPR || c.PRNumber == 0 {
		return NoPRRef
	}
	return strconv.Itoa(c.PRNumber)
}

// Location builds a FileLocation for path on the context's branch.
func (c PRContext) Location(path string) FileLocation {
	return FileLocation{
		Owner:  c.Owner,
		Repo:   c.Repo,
		Branch: c.Branch,
		Path:   path,
	}
}

// IssueTarget identifies an issue or pull request that receives a comment.
type IssueTarget struct {
	Owner  string
	Repo   string
	Number int
}
