package etymology

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// languageWidth is the length of the language code prefix in a word descriptor ("eng: water").
	languageWidth = 3
	// wordOffset is where the word starts inside a word descriptor.
	wordOffset = 5
)

// Record is a normalized etymology claim: Word (in Language) derives from
// OriginWord (in OriginLanguage).
type Record struct {
	Language       string
	Word           string
	OriginLanguage string
	OriginWord     string
}

// ParseRecord normalizes one tab-delimited etymology line. Field 0 is the
// language-prefixed word descriptor and field 2 is the origin descriptor
// ("lat: aqua"), whose language code must end in a colon. The boolean is
// false when the line is malformed or filtered.
func ParseRecord(line string) (Record, bool) {
	fields := strings.Split(strings.ToLower(line), "\t")
	if len(fields) < 3 {
		return Record{}, false
	}
	descriptor, origin := fields[0], fields[2]

	originParts := strings.Split(origin, " ")
	if len(originParts) < 2 {
		return Record{}, false
	}
	if len(descriptor) <= wordOffset || !strings.HasSuffix(originParts[0], ":") {
		return Record{}, false
	}

	r := Record{
		Language:       descriptor[:languageWidth],
		Word:           descriptor[wordOffset:],
		OriginLanguage: strings.TrimSuffix(originParts[0], ":"),
		OriginWord:     originParts[1],
	}
	if !r.valid() {
		return Record{}, false
	}
	return r, true
}

func (r Record) valid() bool {
	if r.Word == "" || r.OriginWord == "" || r.OriginLanguage == "" {
		return false
	}
	if isHyphenated(r.Word) || isHyphenated(r.OriginLanguage) {
		return false
	}
	return !strings.HasPrefix(r.Word, "'")
}

func isHyphenated(s string) bool {
	return strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-")
}

// ReadRecords parses every line from r, silently dropping malformed records.
// Only read failures are returned.
func ReadRecords(r io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var records []Record
	for scanner.Scan() {
		if rec, ok := ParseRecord(scanner.Text()); ok {
			records = append(records, rec)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read etymology records: %w", err)
	}
	return records, nil
}

// LoadRecords reads the etymology TSV at path.
func LoadRecords(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRecords(f)
}
