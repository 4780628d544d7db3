package access

type Policy struct {
	Authenticated bool       `json:"authenticated"`
	EditorMode    EditorMode `json:"editorMode"`
	Capabilities  []string   `json:"capabilities"`
}

func ComputePolicy(v Viewer) Policy {
	mode := EditorOff
	if v.CanEdit() {
		mode = EditorFull
	}
	return Policy{
		Authenticated: v.Authenticated(),
		EditorMode:    mode,
		Capabilities:  CapabilitiesFor(v),
	}
}
