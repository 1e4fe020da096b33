package manifest

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// git runs one git subcommand in dir, or in the current directory when dir
// is empty, and returns its trimmed standard output. A failure carries
// git's own diagnostics.
func git(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	log.Debugf("git %s (dir %q)", strings.Join(args, " "), dir)
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %s: %w", args[0], strings.TrimSpace(stderr.String()), err)
	}
	return strings.TrimSpace(string(out)), nil
}

// syncGit brings the checkout of a git dependency at dir up to date and
// returns the commit it ends up on.
//
// A missing checkout is cloned. An existing one is fetched, moved tags
// included, unless the lock pins it: same repository, same tag and a
// recorded commit. A pinned dependency is checked out at the locked commit,
// otherwise at the declared tag; without either the clone's HEAD is kept.
func syncGit(name, dir string, dep Dependency, locked *LockedDep) (string, error) {
	pinned := locked != nil && locked.Commit != "" && locked.Git == dep.Git && locked.Tag == dep.Tag

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Infof("cloning %s from %s", name, dep.Git)
		if _, err := git("", "clone", "--quiet", dep.Git, dir); err != nil {
			return "", err
		}
	} else if !pinned {
		log.Infof("fetching %s", name)
		if _, err := git(dir, "fetch", "--quiet", "--all", "--tags", "--force"); err != nil {
			return "", err
		}
	}

	ref := dep.Tag
	if pinned {
		ref = locked.Commit
	}
	if ref != "" {
		if _, err := git(dir, "checkout", "--quiet", ref); err != nil {
			return "", fmt.Errorf("%s at %s: %w", name, ref, err)
		}
	}
	return git(dir, "rev-parse", "HEAD")
}
