package byml

import "gopkg.in/yaml.v3"

// ToText renders a Byml tree as canonical YAML, using the tag mapping
// documented on MarshalYAML. The result round-trips through FromText.
func ToText(root Byml) (string, error) {
	node, err := MarshalYAML(root)
	if err != nil {
		return "", err
	}
	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{node}}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// FromText parses canonical YAML produced by ToText back into a Byml tree.
func FromText(text string) (Byml, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, err
	}
	if doc.Kind == yaml.DocumentNode {
		if len(doc.Content) == 0 {
			return Null{}, nil
		}
		return UnmarshalYAML(doc.Content[0])
	}
	return UnmarshalYAML(&doc)
}
