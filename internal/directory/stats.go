package directory

// NoDivisionLabel counts contacts whose division cell is empty.
const NoDivisionLabel = "no division"

// DivisionCount is the number of contacts in one division.
type DivisionCount struct {
	Division string `json:"division"`
	Count    int    `json:"count"`
}

// Stats summarizes the directory. Divisions are listed in the order they
// first appear in the sheet.
type Stats struct {
	TotalContacts int             `json:"total_contacts"`
	Divisions     []DivisionCount `json:"divisions"`
	TopDivision   string          `json:"top_division"`
}

// Count returns the number of contacts in division.
func (s Stats) Count(division string) int {
	for _, d := range s.Divisions {
		if d.Division == division {
			return d.Count
		}
	}
	return 0
}

// Stats counts contacts per division and picks the largest division. On a
// tie the division seen first wins. An empty sheet yields zero values.
func (s *Store) Stats() (Stats, error) {
	_, rows, err := s.load()
	if err != nil {
		return Stats{}, wrapRead("computing stats", err)
	}
	return computeStats(recordsOf(rows)), nil
}

func computeStats(records []record) Stats {
	st := Stats{TotalContacts: len(records), Divisions: []DivisionCount{}}
	index := make(map[string]int)
	for _, r := range records {
		division := r.contact.Division
		if division == "" {
			division = NoDivisionLabel
		}
		i, ok := index[division]
		if !ok {
			i = len(st.Divisions)
			index[division] = i
			st.Divisions = append(st.Divisions, DivisionCount{Division: division})
		}
		st.Divisions[i].Count++
	}

	best := 0
	for _, d := range st.Divisions {
		if d.Count > best {
			best = d.Count
			st.TopDivision = d.Division
		}
	}
	return st
}

// Snapshots lists backup sheet names in creation order.
func (s *Store) Snapshots() ([]string, error) {
	names, err := s.workbook.TableNames()
	if err != nil {
		return nil, wrapRead("listing snapshots", storageError("listing sheets", err))
	}
	var out []string
	for _, name := range names {
		if isSnapshotName(name) {
			out = append(out, name)
		}
	}
	return out, nil
}
