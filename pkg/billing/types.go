package billing

import "time"

type LoginCredentials struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type User struct {
	Name string `json:"name"`
}

type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

type ClientInfo struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
}

type Building struct {
	Name string `json:"name"`
}

// ChartDataPoint is one date bucket of pre-aggregated cost and usage figures.
type ChartDataPoint struct {
	Date                        string  `json:"date"`
	TotalSupplyCostCumulative   float64 `json:"totalSupplyCostCumulative"`
	TotalDeliveryCostCumulative float64 `json:"totalDeliveryCostCumulative"`
	TotalElectricCostCumulative float64 `json:"totalElectricCostCumulative"`
	TotalSupplyCost             float64 `json:"totalSupplyCost"`
	TotalDeliveryCost           float64 `json:"totalDeliveryCost"`
	TotalElectricCost           float64 `json:"totalElectricCost"`
	TotalConsumptionCost        float64 `json:"totalConsumptionCost"`
	TotalDemandCost             float64 `json:"totalDemandCost"`
	TotalDemandPrimary          float64 `json:"totalDemandPrimary"`
	TotalEnergyUsage            float64 `json:"totalEnergyUsage"`
}

// Statistics is an aggregate snapshot. Which fields are populated depends on
// the scope it was requested for.
type Statistics struct {
	TotalEarned    float64 `json:"totalEarned"`
	TotalClients   int     `json:"totalClients"`
	TotalBuildings int     `json:"totalBuildings"`
	TotalInvoices  int     `json:"totalInvoices"`
	TotalEarnings  float64 `json:"totalEarnings,omitempty"`
	TotalSavings   float64 `json:"totalSavings,omitempty"`
	EnergyScore    float64 `json:"energyScore,omitempty"`
}

type StatisticsUpdate struct {
	TotalEarnings float64 `json:"totalEarnings"`
	TotalSavings  float64 `json:"totalSavings"`
	EnergyScore   float64 `json:"energyScore"`
}

// ClientTableData is a client ranked by the total amount billed.
type ClientTableData struct {
	ID            string  `json:"_id"`
	Name          string  `json:"name"`
	AccountNumber string  `json:"accountNumber"`
	TotalAmount   float64 `json:"totalAmount"`
}

type BillingPeriod struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Days      int    `json:"days"`
}

type InvoiceClient struct {
	ID            string `json:"_id"`
	Name          string `json:"name"`
	AccountNumber string `json:"accountNumber"`
}

type Invoice struct {
	ID                      string        `json:"_id"`
	DriveFileID             string        `json:"driveFileId"`
	BillingPeriod           BillingPeriod `json:"billingPeriod"`
	DemandPrimary           float64       `json:"demandPrimary"`
	EnergyUsage             float64       `json:"energyUsage"`
	DemandSupplyCost        float64       `json:"demandSupplyCost"`
	DemandDeliveryCost      float64       `json:"demandDeliveryCost"`
	EnergyDeliveryCost      float64       `json:"energyDeliveryCost"`
	SystemBenefitChargeCost float64       `json:"systemBenefitChargeCost"`
	TotalDeliveryCost       float64       `json:"totalDeliveryCost"`
	TotalSupplyCost         float64       `json:"totalSupplyCost"`
	TotalElectricCost       float64       `json:"totalElectricCost"`
	Building                string        `json:"building"`
	Client                  InvoiceClient `json:"client"`
	CreatedAt               string        `json:"createdAt"`
	UpdatedAt               string        `json:"updatedAt"`
}

type InvoicePage struct {
	Data  []Invoice `json:"data"`
	Total int       `json:"total"`
}

type ClientQuery struct {
	// SearchKey is the free-text search used by the dashboard.
	SearchKey string
	// Client is the substring search used by the invoice filters.
	Client  string
	Page    int
	PerPage int
}

type ChartQuery struct {
	Client    string
	Building  string
	StartDate time.Time
	EndDate   time.Time
}

type InvoiceQuery struct {
	Page      int
	PerPage   int
	Client    string
	StartDate time.Time
	EndDate   time.Time
}
