package tools

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/screenctl/screenctld/internal/security"
	"github.com/screenctl/screenctld/internal/tooltypes"
)

// GateAuditSink is the subset of internal/audit.Store's surface the
// filesystem and shell handlers need to record a security-gate denial at
// the point it happens, kept as an interface so this package doesn't
// depend on sqlite.
type GateAuditSink interface {
	RecordBlockedFileAccess(path, actor, reason, rule string) error
	RecordBlockedCommand(command, actor, reason, rule string) error
}

// Filesystem groups the fs_* handlers around a shared security gate.
type Filesystem struct {
	Gate  *security.Gate
	Audit GateAuditSink
}

const defaultMaxListEntries = 1000

// checkPath consults the gate for path and, on denial, appends a
// blocked_file_access audit row before returning the Fail result a handler
// should return immediately. Returns nil when the gate allows the path.
func (f *Filesystem) checkPath(actor, path string) *tooltypes.Result {
	d := f.Gate.CheckPath(path)
	if d.Allowed {
		return nil
	}
	if f.Audit != nil {
		_ = f.Audit.RecordBlockedFileAccess(path, actor, d.Reason, d.Rule)
	}
	res := tooltypes.Fail("access denied: protected path (security gate rule: " + d.Rule + ")")
	return &res
}

// List implements fs_list: directory listing, optionally recursive,
// skipping any entry the security gate hides.
func (f *Filesystem) List(actor string, params map[string]interface{}) tooltypes.Result {
	path, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, path); res != nil {
		return *res
	}

	recursive := optionalBool(params, "recursive", false)
	maxDepth := optionalInt(params, "maxDepth", -1)

	info, err := os.Stat(path)
	if err != nil {
		return tooltypes.Fail("path does not exist: " + path)
	}
	if !info.IsDir() {
		return tooltypes.Fail("path does not exist: " + path)
	}

	var entries []map[string]interface{}
	walkErr := f.walk(path, recursive, maxDepth, 0, &entries)
	if walkErr != nil {
		return tooltypes.Failf(walkErr)
	}

	return tooltypes.Ok(map[string]interface{}{
		"path":    path,
		"entries": entries,
	})
}

func (f *Filesystem) walk(dir string, recursive bool, maxDepth, depth int, out *[]map[string]interface{}) error {
	children, err := os.ReadDir(dir)
	if err != nil {
		return nil // matches skip_permission_denied: a dir we can't read just yields no entries
	}
	for _, c := range children {
		if len(*out) >= defaultMaxListEntries {
			return nil
		}
		childPath := filepath.Join(dir, c.Name())
		if f.Gate.ShouldHideInListing(childPath) {
			continue
		}

		item := map[string]interface{}{
			"name":        c.Name(),
			"path":        childPath,
			"isDirectory": c.IsDir(),
			"isFile":      !c.IsDir(),
		}
		if info, err := c.Info(); err == nil {
			item["isSymlink"] = info.Mode()&os.ModeSymlink != 0
			if !c.IsDir() {
				item["size"] = info.Size()
			}
		}
		*out = append(*out, item)

		if recursive && c.IsDir() && (maxDepth < 0 || depth+1 < maxDepth) {
			if err := f.walk(childPath, recursive, maxDepth, depth+1, out); err != nil {
				return err
			}
		}
	}
	return nil
}

// Read implements fs_read: whole-file read up to maxBytes, truncated flag
// set when the file is larger.
func (f *Filesystem) Read(actor string, params map[string]interface{}) tooltypes.Result {
	path, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, path); res != nil {
		return *res
	}

	maxBytes := optionalInt(params, "maxBytes", 1<<20)

	data, err := os.ReadFile(path)
	if err != nil {
		return tooltypes.Fail("cannot open file: " + path)
	}

	size := len(data)
	truncated := size > maxBytes
	if truncated {
		data = data[:maxBytes]
	}

	return tooltypes.Ok(map[string]interface{}{
		"path":      path,
		"content":   string(data),
		"size":      size,
		"truncated": truncated,
	})
}

// ReadRange implements fs_read_range: line-bounded read, endLine < 0 means
// to end of file.
func (f *Filesystem) ReadRange(actor string, params map[string]interface{}) tooltypes.Result {
	path, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, path); res != nil {
		return *res
	}

	startLine := optionalInt(params, "startLine", 1)
	endLine := optionalInt(params, "endLine", -1)

	file, err := os.Open(path)
	if err != nil {
		return tooltypes.Fail("cannot open file: " + path)
	}
	defer file.Close()

	var lines []string
	lineNum := 0
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && (endLine < 0 || lineNum <= endLine) {
			lines = append(lines, scanner.Text())
		}
		if endLine >= 0 && lineNum > endLine {
			break
		}
	}

	content := strings.Join(lines, "\n")
	if len(lines) > 0 {
		content += "\n"
	}

	reportedEnd := endLine
	if endLine < 0 {
		reportedEnd = lineNum
	}

	return tooltypes.Ok(map[string]interface{}{
		"path":      path,
		"content":   content,
		"startLine": startLine,
		"endLine":   reportedEnd,
		"lineCount": len(lines),
	})
}

// Write implements fs_write: protected-path check before open, per
// spec.md §4.B and the testable invariant that fs_write(p,...) on a
// protected path must fail the same way fs_read/fs_delete/fs_move do.
func (f *Filesystem) Write(actor string, params map[string]interface{}) tooltypes.Result {
	path, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, path); res != nil {
		return *res
	}

	content := optionalString(params, "content", "")
	mode := optionalString(params, "mode", "overwrite")
	createDirs := optionalBool(params, "createDirs", false)

	if createDirs {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return tooltypes.Failf(err)
		}
	}

	flags := os.O_WRONLY | os.O_CREATE
	if mode == "append" {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(path, flags, 0o644)
	if err != nil {
		return tooltypes.Fail("cannot write to file: " + path)
	}
	defer file.Close()

	n, err := file.WriteString(content)
	if err != nil {
		return tooltypes.Failf(err)
	}

	return tooltypes.Ok(map[string]interface{}{
		"path":         path,
		"bytesWritten": n,
		"mode":         mode,
	})
}

// Delete implements fs_delete.
func (f *Filesystem) Delete(actor string, params map[string]interface{}) tooltypes.Result {
	path, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, path); res != nil {
		return *res
	}

	recursive := optionalBool(params, "recursive", false)

	info, err := os.Stat(path)
	if err != nil {
		return tooltypes.Fail("path does not exist: " + path)
	}

	if info.IsDir() && recursive {
		if err := os.RemoveAll(path); err != nil {
			return tooltypes.Failf(err)
		}
		return tooltypes.Ok(map[string]interface{}{"path": path, "removed": true})
	}

	if err := os.Remove(path); err != nil {
		return tooltypes.Failf(err)
	}
	return tooltypes.Ok(map[string]interface{}{"path": path})
}

// Move implements fs_move.
func (f *Filesystem) Move(actor string, params map[string]interface{}) tooltypes.Result {
	source, err := stringParam(params, "source")
	if err != nil {
		return tooltypes.Failf(err)
	}
	destination, err := stringParam(params, "destination")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, source); res != nil {
		return *res
	}

	if err := os.Rename(source, destination); err != nil {
		return tooltypes.Failf(err)
	}
	return tooltypes.Ok(map[string]interface{}{"source": source, "destination": destination})
}

// Search implements fs_search: glob matching against filenames, honoring a
// "**/" recursive prefix exactly as the original does.
func (f *Filesystem) Search(actor string, params map[string]interface{}) tooltypes.Result {
	basePath, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, basePath); res != nil {
		return *res
	}

	globPattern := optionalString(params, "pattern", "*")
	maxResults := optionalInt(params, "maxResults", 100)

	if _, err := os.Stat(basePath); err != nil {
		return tooltypes.Fail("path does not exist: " + basePath)
	}

	recursive := strings.Contains(globPattern, "**")
	pattern := strings.TrimPrefix(globPattern, "**/")

	var matches []string
	f.searchWalk(basePath, pattern, recursive, maxResults, &matches)

	return tooltypes.Ok(map[string]interface{}{"matches": matches, "count": len(matches)})
}

func (f *Filesystem) searchWalk(dir, pattern string, recursive bool, maxResults int, matches *[]string) {
	children, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	for _, c := range children {
		if len(*matches) >= maxResults {
			return
		}
		childPath := filepath.Join(dir, c.Name())
		if f.Gate.ShouldHideInListing(childPath) {
			continue
		}
		if ok, _ := filepath.Match(strings.ToLower(pattern), strings.ToLower(c.Name())); ok {
			*matches = append(*matches, childPath)
		}
		if recursive && c.IsDir() {
			f.searchWalk(childPath, pattern, recursive, maxResults, matches)
		}
	}
}

// Grep implements fs_grep: regex line search over a file, or over files
// matched by globPattern when path is a directory.
func (f *Filesystem) Grep(actor string, params map[string]interface{}) tooltypes.Result {
	basePath, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, basePath); res != nil {
		return *res
	}

	patternStr, err := stringParam(params, "pattern")
	if err != nil {
		return tooltypes.Failf(err)
	}
	globPattern := optionalString(params, "globPattern", "*")
	maxMatches := optionalInt(params, "maxMatches", 100)

	re, err := regexp.Compile(patternStr)
	if err != nil {
		return tooltypes.Fail("invalid regex pattern: " + err.Error())
	}

	var candidates []string
	info, err := os.Stat(basePath)
	if err != nil {
		return tooltypes.Fail("path does not exist: " + basePath)
	}
	if !info.IsDir() {
		candidates = []string{basePath}
	} else {
		searchResult := f.Search(actor, map[string]interface{}{"path": basePath, "pattern": globPattern, "maxResults": 1000})
		if !searchResult.Success {
			return searchResult
		}
		if list, ok := searchResult.Extra["matches"].([]string); ok {
			candidates = list
		}
	}

	type match struct {
		File    string `json:"file"`
		Line    int    `json:"line"`
		Content string `json:"content"`
	}
	var matches []match

	for _, path := range candidates {
		if len(matches) >= maxMatches {
			break
		}
		if f.Gate.ShouldHideInListing(path) {
			continue
		}
		file, err := os.Open(path)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(file)
		scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)
		lineNum := 0
		for scanner.Scan() {
			lineNum++
			if re.MatchString(scanner.Text()) {
				matches = append(matches, match{File: path, Line: lineNum, Content: scanner.Text()})
				if len(matches) >= maxMatches {
					break
				}
			}
		}
		file.Close()
	}

	matchMaps := make([]map[string]interface{}, len(matches))
	for i, m := range matches {
		matchMaps[i] = map[string]interface{}{"file": m.File, "line": m.Line, "content": m.Content}
	}

	return tooltypes.Ok(map[string]interface{}{"matches": matchMaps, "count": len(matchMaps)})
}

// Patch implements fs_patch: a small sequence of text operations
// (replace/replace_first/replace_all/insert_after/insert_before) applied in
// order, optionally as a dry run.
func (f *Filesystem) Patch(actor string, params map[string]interface{}) tooltypes.Result {
	path, err := stringParam(params, "path")
	if err != nil {
		return tooltypes.Failf(err)
	}
	if res := f.checkPath(actor, path); res != nil {
		return *res
	}

	operations := optionalList(params, "operations")
	dryRun := optionalBool(params, "dryRun", false)

	data, err := os.ReadFile(path)
	if err != nil {
		return tooltypes.Fail("cannot open file: " + path)
	}
	original := string(data)
	content := original

	for _, opAny := range operations {
		op := mapFromAny(opAny)
		switch valueOrEmpty(op, "type") {
		case "replace", "replace_first":
			pattern := valueOrEmpty(op, "pattern")
			replacement := valueOrEmpty(op, "replacement")
			if idx := strings.Index(content, pattern); idx >= 0 {
				content = content[:idx] + replacement + content[idx+len(pattern):]
			}
		case "replace_all":
			pattern := valueOrEmpty(op, "pattern")
			replacement := valueOrEmpty(op, "replacement")
			if pattern != "" {
				content = strings.ReplaceAll(content, pattern, replacement)
			}
		case "insert_after":
			match := valueOrEmpty(op, "match")
			insert := valueOrEmpty(op, "insert")
			if idx := strings.Index(content, match); idx >= 0 {
				pos := idx + len(match)
				content = content[:pos] + insert + content[pos:]
			}
		case "insert_before":
			match := valueOrEmpty(op, "match")
			insert := valueOrEmpty(op, "insert")
			if idx := strings.Index(content, match); idx >= 0 {
				content = content[:idx] + insert + content[idx:]
			}
		}
	}

	modified := content != original
	if !dryRun && modified {
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return tooltypes.Failf(fmt.Errorf("writing patched file: %w", err))
		}
	}

	return tooltypes.Ok(map[string]interface{}{
		"path":     path,
		"modified": modified,
		"dryRun":   dryRun,
	})
}
