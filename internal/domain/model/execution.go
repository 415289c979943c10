package model

// RunRequest is a code snippet submitted for execution.
type RunRequest struct {
	Language string `json:"language"`
	Code     string `json:"code"`
	Stdin    string `json:"stdin"`
}

// RunResult is the judge's verdict for a RunRequest.
type RunResult struct {
	Status        string  `json:"status"`
	StatusID      int     `json:"statusId"`
	Stdout        string  `json:"stdout"`
	Stderr        string  `json:"stderr"`
	CompileOutput string  `json:"compile_output"`
	Time          *string `json:"time"`
	Memory        *int    `json:"memory"`
}
