package media

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

type workItem struct {
	path  string
	depth int
}

// Crawl expands targets into an ordered list of absolute file paths, each
// appearing once. File targets are included directly (subject to the
// extension mask). Directory targets are enumerated; recursion into
// subdirectories only happens when recurse is set. A symlinked directory is
// followed when it is a target or an immediate child of one; symlinks met
// deeper in a walk are skipped, which is what keeps cycles from looping
// forever. Nonexistent targets are silently dropped.
//
// The walk uses an explicit stack instead of recursion so arbitrarily deep
// trees cannot exhaust the goroutine stack.
func Crawl(targets []string, recurse bool, extensionMask []string) ([]string, error) {
	var found []string
	seen := map[string]bool{}

	include := func(path string) {
		abs, err := filepath.Abs(path)
		if err != nil {
			return
		}
		if seen[abs] {
			return
		}
		if !matchesMask(abs, extensionMask) {
			return
		}
		seen[abs] = true
		found = append(found, abs)
	}

	for _, target := range targets {
		// Stat follows symlinks, so a symlinked top-level target behaves as
		// whatever it points at.
		info, err := os.Stat(target)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			include(target)
			continue
		}

		stack := []workItem{{path: target, depth: 0}}
		for len(stack) > 0 {
			item := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			entries, err := os.ReadDir(item.path)
			if err != nil {
				continue
			}
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Name() < entries[j].Name()
			})

			// Children are pushed in reverse so the stack pops them in
			// name order, keeping discovery deterministic.
			var dirs []workItem
			for _, entry := range entries {
				child := filepath.Join(item.path, entry.Name())
				if !entry.IsDir() {
					if entry.Type()&os.ModeSymlink != 0 {
						// A symlink to a directory reports as a non-dir
						// entry; resolve it so the depth rule applies.
						resolved, err := os.Stat(child)
						if err != nil {
							continue
						}
						if resolved.IsDir() {
							// Followed only at the top of a walk; a second
							// encounter sits one level down and is skipped,
							// so a self-link cannot loop.
							if recurse && item.depth == 0 {
								dirs = append(dirs, workItem{path: child, depth: item.depth + 1})
							}
							continue
						}
					}
					include(child)
					continue
				}
				if recurse {
					dirs = append(dirs, workItem{path: child, depth: item.depth + 1})
				}
			}
			for i := len(dirs) - 1; i >= 0; i-- {
				stack = append(stack, dirs[i])
			}
		}
	}

	return found, nil
}

// matchesMask reports whether path's extension is in the mask. The compare
// is case-insensitive on the suffix without its leading dot; an empty mask
// admits everything.
func matchesMask(path string, extensionMask []string) bool {
	if len(extensionMask) == 0 {
		return true
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, allowed := range extensionMask {
		if strings.ToLower(strings.TrimPrefix(allowed, ".")) == ext {
			return true
		}
	}
	return false
}
