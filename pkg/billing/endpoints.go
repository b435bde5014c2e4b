package billing

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

// Calls POST /api/users/login
func (c *Client) Login(ctx context.Context, creds LoginCredentials) (*AuthResponse, error) {
	resp, err := c.Post(ctx, "/api/users/login", creds)
	if err != nil {
		return nil, err
	}

	auth := &AuthResponse{}
	if err := resp.Decode(auth); err != nil {
		return nil, err
	}
	return auth, nil
}

// Calls GET /api/clients
func (c *Client) Clients(ctx context.Context, q ClientQuery) ([]ClientInfo, error) {
	resp, err := c.GetWithParams(ctx, "/api/clients", Params{
		"searchKey": q.SearchKey,
		"client":    q.Client,
		"page":      q.Page,
		"perPage":   q.PerPage,
	})
	if err != nil {
		return nil, err
	}

	var clients []ClientInfo
	if err := resp.Decode(&clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Calls GET /api/dashboard/buildings
func (c *Client) Buildings(ctx context.Context, clientID, searchKey string) ([]Building, error) {
	resp, err := c.GetWithParams(ctx, "/api/dashboard/buildings", Params{
		"client":    clientID,
		"searchKey": searchKey,
	})
	if err != nil {
		return nil, err
	}

	var buildings []Building
	if err := resp.Decode(&buildings); err != nil {
		return nil, err
	}
	return buildings, nil
}

// Calls GET /api/dashboard
func (c *Client) ChartData(ctx context.Context, q ChartQuery) ([]ChartDataPoint, error) {
	resp, err := c.GetWithParams(ctx, "/api/dashboard", Params{
		"client":    q.Client,
		"building":  q.Building,
		"startDate": q.StartDate,
		"endDate":   q.EndDate,
	})
	if err != nil {
		return nil, err
	}

	var points []ChartDataPoint
	if err := resp.Decode(&points); err != nil {
		return nil, err
	}
	return points, nil
}

// Calls GET /api/stats
func (c *Client) Statistics(ctx context.Context, clientID, building string) (*Statistics, error) {
	resp, err := c.GetWithParams(ctx, "/api/stats", Params{
		"client":   clientID,
		"building": building,
	})
	if err != nil {
		return nil, err
	}

	stats := &Statistics{}
	if err := resp.Decode(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Calls PUT /api/stats/{clientID}/{building}
func (c *Client) UpdateStatistics(ctx context.Context, clientID, building string, update StatisticsUpdate) (*Statistics, error) {
	path := fmt.Sprintf("/api/stats/%s/%s", url.PathEscape(clientID), url.PathEscape(building))
	resp, err := c.Put(ctx, path, update)
	if err != nil {
		return nil, err
	}

	stats := &Statistics{}
	if err := resp.Decode(stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// Calls GET /api/dashboard/top-paying-clients
func (c *Client) TopPayingClients(ctx context.Context) ([]ClientTableData, error) {
	return c.rankedClients(ctx, "/api/dashboard/top-paying-clients")
}

// Calls GET /api/dashboard/least-paying-clients
func (c *Client) LeastPayingClients(ctx context.Context) ([]ClientTableData, error) {
	return c.rankedClients(ctx, "/api/dashboard/least-paying-clients")
}

func (c *Client) rankedClients(ctx context.Context, path string) ([]ClientTableData, error) {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var clients []ClientTableData
	if err := resp.Decode(&clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// Calls GET /api/invoices
func (c *Client) Invoices(ctx context.Context, q InvoiceQuery) (*InvoicePage, error) {
	resp, err := c.GetWithParams(ctx, "/api/invoices", Params{
		"page":      q.Page,
		"perPage":   q.PerPage,
		"client":    q.Client,
		"startDate": q.StartDate,
		"endDate":   q.EndDate,
	})
	if err != nil {
		return nil, err
	}

	page := &InvoicePage{}
	if err := resp.Decode(page); err != nil {
		return nil, err
	}
	return page, nil
}

// Calls GET /api/invoices/{id}
func (c *Client) Invoice(ctx context.Context, id string) (*Invoice, error) {
	resp, err := c.Get(ctx, "/api/invoices/"+url.PathEscape(id))
	if err != nil {
		return nil, err
	}

	invoice := &Invoice{}
	if err := resp.Decode(invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Download is a streamed invoice document. The caller must close Body.
type Download struct {
	Filename    string
	ContentType string
	Body        io.ReadCloser
}

// Calls GET /api/invoices/download/{id}
func (c *Client) DownloadInvoice(ctx context.Context, id string) (*Download, error) {
	resp, err := c.send(ctx, http.MethodGet, "/api/invoices/download/"+url.PathEscape(id), nil, nil, nil)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return nil, c.statusError(resp.StatusCode, body)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/pdf"
	}

	return &Download{
		Filename:    downloadFilename(resp.Header.Get("Content-Disposition"), id),
		ContentType: contentType,
		Body:        resp.Body,
	}, nil
}

func downloadFilename(contentDisposition, id string) string {
	fallback := fmt.Sprintf("invoice-%s.pdf", id)
	if contentDisposition == "" {
		return fallback
	}

	_, params, err := mime.ParseMediaType(contentDisposition)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}
