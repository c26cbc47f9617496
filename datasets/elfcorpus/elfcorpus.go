// Package elfcorpus reads compiled ELF binaries into a byte token stream
// labelled with the start offsets of their functions.
package elfcorpus

import "debug/elf"
import "io"
import "io/fs"
import "os"
import "path/filepath"
import "runtime"
import "sort"

import "github.com/pkg/errors"

import "github.com/neurlang/tagger/datasets/windowed"
import "github.com/neurlang/tagger/parallel"

var (
	// ErrEmptyCorpus is returned when no file contributed any code.
	ErrEmptyCorpus = errors.New("elfcorpus: no code found")

	errSkip = errors.New("elfcorpus: skipped")
)

// Stream is the concatenated code of a corpus. Labels[i] reports whether a
// function starts at Tokens[i].
type Stream struct {
	Tokens []int
	Labels []bool

	// Files lists the binaries which contributed code, in stream order.
	Files []string
}

type section struct {
	addr uint64
	data []byte
}

// tag lays out the sections one after another and marks every function
// address falling inside a section.
func tag(sections []section, funcs []uint64) (tokens []int, labels []bool) {
	for _, s := range sections {
		base := len(tokens)
		for _, b := range s.data {
			tokens = append(tokens, int(b))
		}
		labels = append(labels, make([]bool, len(s.data))...)
		for _, f := range funcs {
			if f >= s.addr && f-s.addr < uint64(len(s.data)) {
				labels[base+int(f-s.addr)] = true
			}
		}
	}
	return
}

// decode extracts the executable sections and function symbols of one file.
// The dynamic symbols stand in when the symbol table was stripped. Files
// which are not ELF, or carry no code or no symbols at all, yield errSkip.
func decode(path string) (tokens []int, labels []bool, err error) {
	f, err := elf.Open(path)
	if err != nil {
		var ferr *elf.FormatError
		if errors.As(err, &ferr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, nil, errors.Wrap(errSkip, err.Error())
		}
		return nil, nil, errors.Wrapf(err, "elfcorpus: open %s", path)
	}
	defer f.Close()

	symbols, err := f.Symbols()
	if errors.Is(err, elf.ErrNoSymbols) {
		// stripped binaries still export functions through the dynamic table
		symbols, err = f.DynamicSymbols()
	}
	if errors.Is(err, elf.ErrNoSymbols) {
		return nil, nil, errors.Wrap(errSkip, "no symbols")
	} else if err != nil {
		return nil, nil, errors.Wrapf(err, "elfcorpus: symbols of %s", path)
	}
	var funcs []uint64
	for _, sym := range symbols {
		if elf.ST_TYPE(sym.Info) == elf.STT_FUNC && sym.Value != 0 {
			funcs = append(funcs, sym.Value)
		}
	}

	var sections []section
	for _, s := range f.Sections {
		if s.Type != elf.SHT_PROGBITS || s.Flags&elf.SHF_EXECINSTR == 0 || s.Flags&elf.SHF_ALLOC == 0 {
			continue
		}
		data, err := s.Data()
		if err != nil {
			return nil, nil, errors.Wrapf(err, "elfcorpus: section %s of %s", s.Name, path)
		}
		sections = append(sections, section{addr: s.Addr, data: data})
	}
	tokens, labels = tag(sections, funcs)
	if len(tokens) == 0 {
		return nil, nil, errors.Wrap(errSkip, "no code")
	}
	return tokens, labels, nil
}

// list returns path itself when it is a file, or every regular file below it sorted by path.
func list(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrap(err, "elfcorpus")
	}
	if !info.IsDir() {
		return []string{path}, nil
	}
	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "elfcorpus")
	}
	sort.Strings(files)
	return files, nil
}

// Load reads path, a binary or a directory of binaries, into one stream. Files
// are decoded concurrently and joined in path order with a SeparatorToken
// between consecutive files. It also returns the files which were skipped.
func Load(path string) (*Stream, []string, error) {
	files, err := list(path)
	if err != nil {
		return nil, nil, err
	}

	type result struct {
		tokens []int
		labels []bool
		skip   bool
	}
	results := make([]result, len(files))
	err = parallel.ForEach(len(files), runtime.NumCPU(), func(i int) error {
		tokens, labels, err := decode(files[i])
		if errors.Is(err, errSkip) {
			results[i].skip = true
			return nil
		}
		results[i] = result{tokens: tokens, labels: labels}
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var s Stream
	var skipped []string
	for i, r := range results {
		if r.skip {
			skipped = append(skipped, files[i])
			continue
		}
		if len(s.Tokens) > 0 {
			s.Tokens = append(s.Tokens, windowed.SeparatorToken)
			s.Labels = append(s.Labels, false)
		}
		s.Tokens = append(s.Tokens, r.tokens...)
		s.Labels = append(s.Labels, r.labels...)
		s.Files = append(s.Files, files[i])
	}
	if len(s.Tokens) == 0 {
		return nil, skipped, errors.Wrapf(ErrEmptyCorpus, "%s (%d files skipped)", path, len(skipped))
	}
	return &s, skipped, nil
}
