package svn

import (
	"encoding/xml"
	"fmt"
)

// Item is the working-copy state of one status entry, the parsed
// wc-status "item" attribute.
type Item int

const (
	ItemUnknown Item = iota
	ItemNormal
	ItemNone
	ItemExternal
	ItemUnversioned
	ItemIgnored
	ItemMissing
	ItemConflicted
	ItemObstructed
	ItemIncomplete
	ItemModified
	ItemAdded
	ItemDeleted
	ItemReplaced
	ItemMerged
)

var itemNames = map[string]Item{
	"normal":      ItemNormal,
	"none":        ItemNone,
	"external":    ItemExternal,
	"unversioned": ItemUnversioned,
	"ignored":     ItemIgnored,
	"missing":     ItemMissing,
	"conflicted":  ItemConflicted,
	"obstructed":  ItemObstructed,
	"incomplete":  ItemIncomplete,
	"modified":    ItemModified,
	"added":       ItemAdded,
	"deleted":     ItemDeleted,
	"replaced":    ItemReplaced,
	"merged":      ItemMerged,
}

// ParseItem maps a wc-status item attribute to an Item.
// Unrecognized values map to ItemUnknown, which classifies as dirty.
func ParseItem(s string) Item {
	if it, ok := itemNames[s]; ok {
		return it
	}
	return ItemUnknown
}

func (i Item) String() string {
	for name, it := range itemNames {
		if it == i {
			return name
		}
	}
	return "unknown"
}

// StatusEntry is one record of a working-copy status pass.
// Entries are produced fresh on every classification call and never
// persisted.
type StatusEntry struct {
	Path            string
	Item            Item
	PropsConflicted bool
	TreeConflicted  bool
	Switched        bool
}

// xmlStatus mirrors the svn status --xml document.
type xmlStatus struct {
	Targets []struct {
		Entries []xmlStatusEntry `xml:"entry"`
	} `xml:"target"`
}

type xmlStatusEntry struct {
	Path     string `xml:"path,attr"`
	WCStatus struct {
		Item           string `xml:"item,attr"`
		Props          string `xml:"props,attr"`
		TreeConflicted string `xml:"tree-conflicted,attr"`
		Switched       string `xml:"switched,attr"`
	} `xml:"wc-status"`
}

// ParseStatus parses svn status --xml output into status entries,
// in document order.
func ParseStatus(data []byte) ([]StatusEntry, error) {
	var doc xmlStatus
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse status xml: %w", err)
	}

	var entries []StatusEntry
	for _, target := range doc.Targets {
		for _, e := range target.Entries {
			entries = append(entries, StatusEntry{
				Path:            e.Path,
				Item:            ParseItem(e.WCStatus.Item),
				PropsConflicted: e.WCStatus.Props == "conflicted",
				TreeConflicted:  e.WCStatus.TreeConflicted == "true",
				Switched:        e.WCStatus.Switched == "true",
			})
		}
	}
	return entries, nil
}
