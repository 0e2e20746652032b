package inspection

type LoggedEvent struct {
	Result *HarnessInspection
}
