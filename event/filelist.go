package event

import (
	"bufio"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FileOrdinal parses the integer after the first underscore of the base
// name, e.g. 123 for ".../step3_123.root".
func FileOrdinal(filename string) (int, error) {
	base := path.Base(filename)
	stem := strings.SplitN(base, ".", 2)[0]
	fields := strings.Split(stem, "_")
	if len(fields) < 2 {
		return 0, errors.Wrapf(ErrBadFileName, "%s", filename)
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, errors.Wrapf(ErrBadFileName, "%s: %v", filename, err)
	}
	return n, nil
}

type ListOptions struct {
	// Prefix is prepended to every entry, e.g. an xrootd redirector.
	Prefix string
	// BasenamePrefix keeps only files whose base name starts with it.
	BasenamePrefix string
	// Veto drops files whose path contains any of these strings.
	Veto []string
	// MaxFiles truncates the list when positive.
	MaxFiles int
}

// LoadFileList reads one file name per line from listPath.
func LoadFileList(listPath string, opts ListOptions) ([]string, error) {
	f, err := os.Open(listPath)
	if err != nil {
		return nil, errors.Wrap(err, "open file list")
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read file list %s", listPath)
	}

	files := FilterFiles(lines, opts)
	if len(files) == 0 {
		return nil, errors.Wrapf(ErrNoFiles, "%s", listPath)
	}
	return files, nil
}

func FilterFiles(names []string, opts ListOptions) []string {
	var files []string
	for _, name := range names {
		name = strings.TrimRight(name, " \t\r\n")
		if name == "" || strings.HasPrefix(name, "#") {
			continue
		}
		if opts.BasenamePrefix != "" && !strings.HasPrefix(path.Base(name), opts.BasenamePrefix) {
			continue
		}
		if vetoed(name, opts.Veto) {
			continue
		}
		files = append(files, opts.Prefix+name)
		if opts.MaxFiles > 0 && len(files) >= opts.MaxFiles {
			break
		}
	}
	return files
}

func vetoed(name string, veto []string) bool {
	for _, v := range veto {
		if v != "" && strings.Contains(name, v) {
			return true
		}
	}
	return false
}
