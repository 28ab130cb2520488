package models

// ResultStatus tags the state of one provider column.
type ResultStatus string

const (
	StatusIdle    ResultStatus = "idle"
	StatusLoading ResultStatus = "loading"
	StatusEmpty   ResultStatus = "empty"
	StatusFailed  ResultStatus = "failed"
	StatusLoaded  ResultStatus = "loaded"
)

// ResultState is the tagged result of one provider for one search.
// Items is only non-empty when Status is StatusLoaded, Reason only when StatusFailed.
type ResultState struct {
	Status ResultStatus `json:"status"`
	Items  []Product    `json:"items"`
	Reason string       `json:"reason,omitempty"`
}

func IdleState() ResultState    { return ResultState{Status: StatusIdle, Items: []Product{}} }
func LoadingState() ResultState { return ResultState{Status: StatusLoading, Items: []Product{}} }

func FailedState(reason string) ResultState {
	return ResultState{Status: StatusFailed, Items: []Product{}, Reason: reason}
}

// ItemsState returns Loaded for a non-empty list and Empty otherwise.
func ItemsState(items []Product) ResultState {
	if len(items) == 0 {
		return ResultState{Status: StatusEmpty, Items: []Product{}}
	}
	return ResultState{Status: StatusLoaded, Items: items}
}

func (s ResultState) IsPending() bool { return s.Status == StatusLoading }
func (s ResultState) HasItems() bool  { return len(s.Items) > 0 }

// ProviderState is a ResultState labelled with the provider it belongs to.
type ProviderState struct {
	Provider string      `json:"provider"`
	Label    string      `json:"label"`
	State    ResultState `json:"state"`
}

// Snapshot is a point-in-time copy of a session's search state.
type Snapshot struct {
	Query   string          `json:"query"`
	Token   uint64          `json:"token"`
	Loading bool            `json:"loading"`
	Results []ProviderState `json:"results"`
}

// AnyItems reports whether at least one provider has listings to show.
func (s Snapshot) AnyItems() bool {
	for _, r := range s.Results {
		if r.State.HasItems() {
			return true
		}
	}
	return false
}
