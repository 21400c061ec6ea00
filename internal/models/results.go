package models

type QueueResult struct {
	GatewayURL    string           `json:"gateway_url"`
	BaseName      string           `json:"base_name"`
	AccessMethod  string           `json:"access_method"`
	TotalFiles    int              `json:"total_files"`
	TotalParts    int              `json:"total_parts"`
	Downloads     []DownloadHandle `json:"downloads"`
	OperationTime string           `json:"operation_time"`
}

type StatusResult struct {
	GatewayURL    string           `json:"gateway_url"`
	Downloads     []DownloadHandle `json:"downloads"`
	OperationTime string           `json:"operation_time"`
}

type ErrorResponse struct {
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
	Command   string `json:"command"`
}
