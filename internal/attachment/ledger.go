package attachment

// Ledger groups a declaration's attachments by section. Every section is
// present, possibly empty, and keeps the order it was given in.
type Ledger map[Section][]Attachment

func NewLedger(items []Attachment) Ledger {
	l := make(Ledger, len(AllSections))
	for _, s := range AllSections {
		l[s] = []Attachment{}
	}
	for _, a := range items {
		if _, ok := l[a.Section]; !ok {
			continue
		}
		l[a.Section] = append(l[a.Section], a)
	}
	return l
}

func (l Ledger) Len() int {
	n := 0
	for _, items := range l {
		n += len(items)
	}
	return n
}

// StoredIDs returns the object-storage ids of every entry, used when the
// owning declaration is removed.
func (l Ledger) StoredIDs() []string {
	ids := make([]string, 0, l.Len())
	for _, s := range AllSections {
		for _, a := range l[s] {
			ids = append(ids, a.StoredID)
		}
	}
	return ids
}
