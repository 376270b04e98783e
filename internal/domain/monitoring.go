package domain

// NodeType enumerates pipe-network node kinds.
type NodeType string

const (
	NodeTypeDistributor NodeType = "DISTRIBUTOR"
	NodeTypeCustomer    NodeType = "CUSTOMER"
)

// SensorNode is a monitoring display row for one network node.
// Readings are sample data; live sensor ingestion is out of scope.
type SensorNode struct {
	NodeID     string   `json:"nodeId"`
	NodeType   NodeType `json:"nodeType"`
	Location   string   `json:"location"`
	Customer   string   `json:"customer,omitempty"`
	FlowRate   float64  `json:"flowRate"`
	Pressure   float64  `json:"pressure"`
	Online     bool     `json:"online"`
	LastUpdate string   `json:"lastUpdate"`
}

// LeakReading summarizes the distributor-vs-customer flow comparison
// shown on the monitoring dashboard.
type LeakReading struct {
	DistributorFlow   float64 `json:"distributorFlow"`
	CustomerTotalFlow float64 `json:"customerTotalFlow"`
	FlowDifference    float64 `json:"flowDifference"`
	Status            string  `json:"status"`
	ThresholdPercent  float64 `json:"threshold"`
}

// SystemSetting is an admin-tunable configuration row.
type SystemSetting struct {
	Key         string `json:"settingKey"`
	Value       string `json:"settingValue"`
	Description string `json:"description"`
	UpdatedBy   string `json:"updatedBy,omitempty"`
}
