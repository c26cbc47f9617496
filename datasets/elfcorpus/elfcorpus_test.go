package elfcorpus

import (
	"bytes"
	"debug/elf"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/tagger/datasets/windowed"
)

func TestTag(t *testing.T) {
	tokens, labels := tag([]section{
		{addr: 0x1000, data: []byte{0x55, 0x48, 0xc3}},
		{addr: 0x2000, data: []byte{0x90, 0xc3}},
	}, []uint64{0x1000, 0x1002, 0x2001, 0x1003, 0x3000, 0xfff})

	assert.Equal(t, []int{0x55, 0x48, 0xc3, 0x90, 0xc3}, tokens)
	assert.Equal(t, []bool{true, false, true, false, true}, labels)
}

func TestLoadSkipsNonELF(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), append([]byte("\x7fELF"), make([]byte, 60)...), 0o644))

	_, skipped, err := Load(dir)
	assert.True(t, errors.Is(err, ErrEmptyCorpus))
	assert.Len(t, skipped, 2)
}

func TestLoadMissingPath(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

const textAddr = 0x401000

// text is 16 bytes of code holding two functions, at offsets 0 and 6.
var text = []byte{
	0x55, 0x48, 0x89, 0xe5, 0xc3, 0x90,
	0x55, 0x48, 0x89, 0xe5, 0x5d, 0xc3,
	0x90, 0x90, 0x90, 0x90,
}

type symbol struct {
	name  string
	typ   elf.SymType
	value uint64
}

var fixtureSymbols = []symbol{
	{"main", elf.STT_FUNC, textAddr},
	{"helper", elf.STT_FUNC, textAddr + 6},
	{"table", elf.STT_OBJECT, textAddr + 12},
	{"imported", elf.STT_FUNC, 0},
	{"elsewhere", elf.STT_FUNC, textAddr + 0x100},
}

var textLabels = []bool{
	true, false, false, false, false, false,
	true, false, false, false, false, false,
	false, false, false, false,
}

func align8(n int) int {
	return (n + 7) &^ 7
}

func pad(b *bytes.Buffer, to int) {
	b.Write(make([]byte, to-b.Len()))
}

// writeELF writes a minimal x86-64 executable with one .text section at
// textAddr and the symbols in a table of type symtab, SHT_SYMTAB for a
// regular binary or SHT_DYNSYM for a stripped one.
func writeELF(t *testing.T, path string, symtab elf.SectionType) {
	symName, strName := ".symtab", ".strtab"
	symFlags := elf.SectionFlag(0)
	if symtab == elf.SHT_DYNSYM {
		symName, strName = ".dynsym", ".dynstr"
		symFlags = elf.SHF_ALLOC
	}

	var strtab bytes.Buffer
	strtab.WriteByte(0)
	entries := []elf.Sym64{{}}
	for _, s := range fixtureSymbols {
		entries = append(entries, elf.Sym64{
			Name:  uint32(strtab.Len()),
			Info:  elf.ST_INFO(elf.STB_GLOBAL, s.typ),
			Shndx: 1,
			Value: s.value,
		})
		strtab.WriteString(s.name)
		strtab.WriteByte(0)
	}
	var symdata bytes.Buffer
	require.NoError(t, binary.Write(&symdata, binary.LittleEndian, entries))

	var shstrtab bytes.Buffer
	names := map[string]uint32{}
	shstrtab.WriteByte(0)
	for _, n := range []string{".text", symName, strName, ".shstrtab"} {
		names[n] = uint32(shstrtab.Len())
		shstrtab.WriteString(n)
		shstrtab.WriteByte(0)
	}

	textOff := binary.Size(elf.Header64{})
	strOff := textOff + len(text)
	symOff := align8(strOff + strtab.Len())
	shstrOff := symOff + symdata.Len()
	shOff := align8(shstrOff + shstrtab.Len())

	sections := []elf.Section64{
		{},
		{
			Name: names[".text"], Type: uint32(elf.SHT_PROGBITS),
			Flags: uint64(elf.SHF_ALLOC | elf.SHF_EXECINSTR),
			Addr:  textAddr, Off: uint64(textOff), Size: uint64(len(text)), Addralign: 16,
		},
		{
			Name: names[symName], Type: uint32(symtab), Flags: uint64(symFlags),
			Off: uint64(symOff), Size: uint64(symdata.Len()),
			Link: 3, Info: 1, Addralign: 8, Entsize: uint64(elf.Sym64Size),
		},
		{
			Name: names[strName], Type: uint32(elf.SHT_STRTAB), Flags: uint64(symFlags),
			Off: uint64(strOff), Size: uint64(strtab.Len()), Addralign: 1,
		},
		{
			Name: names[".shstrtab"], Type: uint32(elf.SHT_STRTAB),
			Off: uint64(shstrOff), Size: uint64(shstrtab.Len()), Addralign: 1,
		},
	}

	hdr := elf.Header64{
		Type:      uint16(elf.ET_EXEC),
		Machine:   uint16(elf.EM_X86_64),
		Version:   uint32(elf.EV_CURRENT),
		Entry:     textAddr,
		Shoff:     uint64(shOff),
		Ehsize:    uint16(textOff),
		Phentsize: uint16(binary.Size(elf.Prog64{})),
		Shentsize: uint16(binary.Size(elf.Section64{})),
		Shnum:     uint16(len(sections)),
		Shstrndx:  4,
	}
	copy(hdr.Ident[:], elf.ELFMAG)
	hdr.Ident[elf.EI_CLASS] = byte(elf.ELFCLASS64)
	hdr.Ident[elf.EI_DATA] = byte(elf.ELFDATA2LSB)
	hdr.Ident[elf.EI_VERSION] = byte(elf.EV_CURRENT)

	var b bytes.Buffer
	require.NoError(t, binary.Write(&b, binary.LittleEndian, hdr))
	b.Write(text)
	b.Write(strtab.Bytes())
	pad(&b, symOff)
	b.Write(symdata.Bytes())
	b.Write(shstrtab.Bytes())
	pad(&b, shOff)
	require.NoError(t, binary.Write(&b, binary.LittleEndian, sections))
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0o755))
}

func textTokens() []int {
	tokens := make([]int, len(text))
	for i, b := range text {
		tokens[i] = int(b)
	}
	return tokens
}

func TestLoadMarksFunctionStarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog")
	writeELF(t, path, elf.SHT_SYMTAB)

	s, skipped, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, []string{path}, s.Files)
	assert.Equal(t, textTokens(), s.Tokens)
	assert.Equal(t, textLabels, s.Labels)
}

func TestLoadStrippedUsesDynamicSymbols(t *testing.T) {
	path := filepath.Join(t.TempDir(), "libprog.so")
	writeELF(t, path, elf.SHT_DYNSYM)

	s, skipped, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.Equal(t, textTokens(), s.Tokens)
	assert.Equal(t, textLabels, s.Labels)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeELF(t, filepath.Join(dir, "b.bin"), elf.SHT_SYMTAB)
	writeELF(t, filepath.Join(dir, "a.bin"), elf.SHT_DYNSYM)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes"), []byte("text"), 0o644))

	s, skipped, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "notes")}, skipped)
	assert.Equal(t, []string{filepath.Join(dir, "a.bin"), filepath.Join(dir, "b.bin")}, s.Files)

	n := len(text)
	require.Len(t, s.Tokens, 2*n+1)
	require.Len(t, s.Labels, 2*n+1)
	assert.Equal(t, windowed.SeparatorToken, s.Tokens[n])
	assert.False(t, s.Labels[n])
	assert.Equal(t, textLabels, s.Labels[:n])
	assert.Equal(t, textLabels, s.Labels[n+1:])
	assert.Equal(t, textTokens(), s.Tokens[n+1:])
}
