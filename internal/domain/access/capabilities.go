package access

func CapabilitiesFor(v Viewer) []string {
	caps := []string{CapView}
	if v.CanSeeDrafts() {
		caps = append(caps, CapViewDrafts)
	}
	if v.CanEdit() {
		caps = append(caps, CapEdit, CapUpload)
	}
	return caps
}

func (v Viewer) Can(capability string) bool {
	for _, c := range CapabilitiesFor(v) {
		if c == capability {
			return true
		}
	}
	return false
}
