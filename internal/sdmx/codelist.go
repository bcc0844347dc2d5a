package sdmx

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/xmlpath.v2"
)

// CodeList is a named set of codes from a structure file, e.g. the
// categories or frequencies used by the data file's series attributes.
type CodeList struct {
	ID    string
	Name  string
	Codes []Code
}

// Code is one value of a CodeList with its description.
type Code struct {
	Value       string
	Description string
}

var (
	codeListPath    = xmlpath.MustCompile("//CodeList")
	codeListIDPath  = xmlpath.MustCompile("@id")
	codeListName    = xmlpath.MustCompile("Name")
	codePath        = xmlpath.MustCompile("Code")
	codeValuePath   = xmlpath.MustCompile("@value")
	codeDescription = xmlpath.MustCompile("Description")
)

// ReadCodeLists reads every CodeList of a structure document in document
// order. Every CodeList needs an id and every Code a value.
func ReadCodeLists(r io.Reader) ([]CodeList, error) {
	root, err := xmlpath.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing structure XML: %w", err)
	}

	var lists []CodeList
	for it := codeListPath.Iter(root); it.Next(); {
		node := it.Node()
		id, ok := codeListIDPath.String(node)
		if !ok {
			return nil, fmt.Errorf("code list %d: missing id attribute", len(lists)+1)
		}
		name, _ := codeListName.String(node)
		list := CodeList{ID: id, Name: strings.TrimSpace(name)}

		for cit := codePath.Iter(node); cit.Next(); {
			code := cit.Node()
			value, ok := codeValuePath.String(code)
			if !ok {
				return nil, fmt.Errorf("code list %s: code %d: missing value attribute", id, len(list.Codes)+1)
			}
			desc, _ := codeDescription.String(code)
			list.Codes = append(list.Codes, Code{Value: value, Description: strings.TrimSpace(desc)})
		}
		lists = append(lists, list)
	}
	return lists, nil
}

// Lookup returns the description of value.
func (l CodeList) Lookup(value string) (string, bool) {
	for _, c := range l.Codes {
		if c.Value == value {
			return c.Description, true
		}
	}
	return "", false
}

// FindCodeList returns the list with the given id.
func FindCodeList(lists []CodeList, id string) (CodeList, bool) {
	for _, l := range lists {
		if l.ID == id {
			return l, true
		}
	}
	return CodeList{}, false
}
