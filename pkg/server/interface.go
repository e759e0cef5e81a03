/*
Package server implements msgpack IPC for word completion services.

The server reads a stream of msgpack maps from stdin and answers each with one
msgpack map on stdout. Logs never go to stdout.

# IPC

Every message carries an "id" that is echoed back. A message without an
"action" is a completion request:

	{"id": "req_001", "p": "ame", "l": 24}

The server responds with suggestions ranked by frequency, the frequency of the
prefix itself when it is a stored term, and the lookup time in microseconds:

	{"id": "req_001", "s": [{"w": "america", "r": 1, "f": 812}, {"w": "amenity", "r": 2, "f": 90}], "c": 2, "pf": 0, "t": 145}

Messages with an action manage the dictionary at runtime:

	{"id": "d1", "action": "get_info"}
	{"id": "d2", "action": "add_term", "term": "wordtrie", "count": 5}
	{"id": "d3", "action": "save"}

Invalid completion requests are answered with a CompletionError; failed
dictionary actions with a DictionaryResponse whose status is "error".

The server counts requests and re-reads its config file periodically, so
limits can be tuned without a restart.
*/
package server

// Request is the union of every message a client may send. The presence of
// Action selects a dictionary operation.
type Request struct {
	ID     string `msgpack:"id"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Action string `msgpack:"action,omitempty"`
	Term   string `msgpack:"term,omitempty"`
	Count  uint64 `msgpack:"count,omitempty"`
}

// CompletionRequest - minimal completion request
type CompletionRequest struct {
	ID     string `msgpack:"id"`
	Prefix string `msgpack:"p"`
	Limit  int    `msgpack:"l,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word      string `msgpack:"w"`
	Rank      uint16 `msgpack:"r"`
	Frequency uint64 `msgpack:"f"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID              string                 `msgpack:"id"`
	Suggestions     []CompletionSuggestion `msgpack:"s"`
	Count           int                    `msgpack:"c"`
	PrefixFrequency uint64                 `msgpack:"pf"`
	TimeTaken       int64                  `msgpack:"t"`
}

// Dictionary actions.
const (
	ActionGetInfo = "get_info"
	ActionAddTerm = "add_term"
	ActionSave    = "save"
)

// DictionaryRequest - dictionary management request
type DictionaryRequest struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action"`          // "get_info", "add_term", "save"
	Term   string `msgpack:"term,omitempty"`  // for "add_term"
	Count  uint64 `msgpack:"count,omitempty"` // for "add_term", defaults to 1
}

// DictionaryResponse - dictionary operation response
type DictionaryResponse struct {
	ID           string `msgpack:"id"`
	Status       string `msgpack:"status"`
	Error        string `msgpack:"error,omitempty"`
	Terms        int    `msgpack:"terms"`
	Nodes        int    `msgpack:"nodes,omitempty"`
	MaxFrequency int    `msgpack:"max_frequency,omitempty"`
	Dirty        bool   `msgpack:"dirty"`
	Saved        int    `msgpack:"saved,omitempty"`
}

// CompletionError holds basic error information for completion requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
