package core

// Selection targets entities by set name, by explicit keys, or all of
// them. The zero value and an empty key list select nothing.
type Selection struct {
	All  bool   `yaml:"all,omitempty"`
	Set  string `yaml:"set,omitempty"`
	Keys []int  `yaml:"keys,omitempty"`
}

// All selects every entity.
func All() Selection { return Selection{All: true} }

// InSet selects the members of the named set.
func InSet(name string) Selection { return Selection{Set: name} }

// Keys selects the given keys.
func Keys(keys ...int) Selection { return Selection{Keys: keys} }

// IsAll reports whether the selection targets every entity.
func (s Selection) IsAll() bool { return s.All }
