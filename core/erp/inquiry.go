package erp

import (
	"context"
	"encoding/json"
	"fmt"

	"erp-sync/core/models"
	"erp-sync/core/utils"
)

const (
	productInquiryPath = "/PADEALER/PADLRItemInquiry/Inquire"
	grnInquiryPath     = "/PADEALER/PADLRGOODRECEIVENOTE/Inquire"
	helpSearchPath     = "/Help/GetHelp"
	dealerHomePath     = "/Application/Home/PADEALER"

	grnListAPI      = "api/Modules/Padealer/Padlrgoodreceivenote/List"
	pendingOrderAPI = "api/Modules/Padealer/Padlrgoodreceivenote/DealerPAPendingGRNNo"

	// Help search columns.
	ColumnInvoiceNo       = "STR_INVOICE_NO"
	ColumnDealerOrderNo   = "STR_DLR_ORD_NO"
	ColumnMobileInvoiceNo = "STR_MOBILE_INVOICE_NO"
)

// GRNRow is one goods receipt note returned by the help search.
type GRNRow struct {
	GRNID     string `json:"GRN No"`
	InvoiceID string `json:"Invoice No"`
	OrderID   string `json:"Order No"`
}

// OrderRow links a dealer order to its invoices.
type OrderRow struct {
	OrderID         string `json:"Order No"`
	InvoiceID       string `json:"Invoice No"`
	MobileInvoiceID string `json:"Mobile Invoice No"`
}

// decodeProduct additionally rejects items without a selling price; the ERP
// returns those for superseded part numbers.
func decodeProduct(body []byte) (Result, error) {
	res, err := DecodeEnvelope(body)
	if err != nil || res.Kind != KindData {
		return res, err
	}

	var data map[string]any
	if err := json.Unmarshal(res.Data, &data); err != nil {
		return Result{}, fmt.Errorf("%w: product DATA is not an object: %v", ErrInvalidResponse, err)
	}
	raw, ok := utils.FirstOf(data, "dblSellingPrice")
	if !ok {
		return Result{Kind: KindInvalid, Reason: "no selling price"}, nil
	}
	price, err := utils.ToDecimal(raw)
	if err != nil || price.IsZero() {
		return Result{Kind: KindInvalid, Reason: "expired reference"}, nil
	}
	return res, nil
}

// InquireProduct fetches the current selling price of a part.
func (c *Client) InquireProduct(ctx context.Context, ref string) (models.ProductRecord, error) {
	data, err := c.Call(ctx, Request{
		Name:     "product",
		Endpoint: productInquiryPath,
		Referer:  dealerHomePath,
		Payload: map[string]string{
			"strPartNo_PAItemInq":       ref,
			"strFuncType":               "INVENTORYDATA",
			"strPADealerCode_PAItemInq": c.cfg.DealerCode,
			"STR_FORM_ID":               "00602",
			"STR_FUNCTION_ID":           "IQ",
			"STR_PREMIS":                "KGL",
			"STR_INSTANT":               "DLR",
			"STR_APP_ID":                "00011",
		},
		Decode: decodeProduct,
	})
	if err != nil {
		return models.ProductRecord{}, fmt.Errorf("inquire product %s: %w", ref, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return models.ProductRecord{}, fmt.Errorf("%w: product %s: %v", ErrInvalidResponse, ref, err)
	}

	raw, _ := utils.FirstOf(fields, "dblSellingPrice")
	price, err := utils.ToDecimal(raw)
	if err != nil {
		return models.ProductRecord{}, fmt.Errorf("%w: product %s: %v", ErrInvalidIdentity, ref, err)
	}
	desc, _ := utils.FirstOf(fields, "STR_DESC", "strDesc", "strDescription")

	return models.ProductRecord{
		ReferenceID: ref,
		Description: utils.ToString(desc),
		UnitCost:    price,
	}, nil
}

// InquireInvoiceProducts fetches the line items of an invoice. With a GRN id the
// goods receipt is queried, otherwise the invoice itself.
func (c *Client) InquireInvoiceProducts(ctx context.Context, ref models.InvoiceRef) ([]models.ProductRecord, error) {
	payload := map[string]string{
		"STR_INSTANT":     "DLR",
		"STR_PREMIS":      "KGL",
		"STR_APP_ID":      "00011",
		"STR_FORM_ID":     "00605",
		"strMode":         "INVOICE",
		"STR_FUNCTION_ID": "CR",
		"strInvoiceNo":    ref.InvoiceID,
		"strPADealerCode": c.cfg.DealerCode,
	}
	if ref.GRNID != "" {
		payload["strMode"] = "GRN"
		payload["STR_FUNCTION_ID"] = "IQ"
		payload["strGRNno"] = ref.GRNID
	}

	data, err := c.Call(ctx, Request{
		Name:     "invoice",
		Endpoint: grnInquiryPath,
		Referer:  dealerHomePath,
		Payload:  payload,
	})
	if err != nil {
		return nil, fmt.Errorf("inquire invoice %s: %w", ref.InvoiceID, err)
	}

	rows, err := invoiceRows(data, ref.GRNID != "")
	if err != nil {
		return nil, fmt.Errorf("invoice %s: %w", ref.InvoiceID, err)
	}

	products := make([]models.ProductRecord, 0, len(rows))
	for i, row := range rows {
		p, err := productFromRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: invoice %s row %d: %v", ErrInvalidResponse, ref.InvoiceID, i, err)
		}
		products = append(products, p)
	}
	return products, nil
}

func invoiceRows(data json.RawMessage, grnMode bool) ([]map[string]any, error) {
	if grnMode {
		var doc struct {
			Details struct {
				Table []map[string]any `json:"Table"`
			} `json:"dsGRNDetails"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("%w: GRN details: %v", ErrInvalidResponse, err)
		}
		return doc.Details.Table, nil
	}

	var doc struct {
		Details []map[string]any `json:"dtGRNDetails"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: invoice details: %v", ErrInvalidResponse, err)
	}
	return doc.Details, nil
}

func productFromRow(row map[string]any) (models.ProductRecord, error) {
	ref, _ := utils.FirstOf(row, "STR_PART_NO", "STR_PART_CODE")
	id := utils.ToString(ref)
	if id == "" {
		return models.ProductRecord{}, fmt.Errorf("missing part number")
	}

	rawQty, _ := utils.FirstOf(row, "INT_QUANTITY", "INT_QUATITY")
	qty, err := utils.ToDecimal(rawQty)
	if err != nil {
		return models.ProductRecord{}, fmt.Errorf("quantity of %s: %w", id, err)
	}
	rawCost, _ := utils.FirstOf(row, "INT_UNIT_COST")
	cost, err := utils.ToDecimal(rawCost)
	if err != nil {
		return models.ProductRecord{}, fmt.Errorf("unit cost of %s: %w", id, err)
	}
	if qty.IsNegative() || cost.IsNegative() {
		return models.ProductRecord{}, fmt.Errorf("negative quantity or cost for %s", id)
	}
	desc, _ := utils.FirstOf(row, "STR_DESC")

	return models.ProductRecord{
		ReferenceID: id,
		Description: utils.ToString(desc),
		Quantity:    qty,
		UnitCost:    cost,
	}, nil
}

// helpSearch posts a help search query and returns its rows.
func (c *Client) helpSearch(ctx context.Context, name, referer string, fields map[string]string) ([]map[string]any, error) {
	payload := map[string]string{
		"strInstance":              "DLR",
		"strPremises":              "KGL",
		"strAppID":                 "00011",
		"strFORMID":                "00605",
		"strSEARCH_TEXT":           "",
		"strLIMIT":                 "0",
		"strARCHIVE":               "TRUE",
		"strOTHER_WHERE_CONDITION": "",
		"strTITEL":                 "",
		"strAll_DATA":              "true",
		"strSchema":                "",
	}
	for k, v := range fields {
		payload[k] = v
	}

	data, err := c.Call(ctx, Request{
		Name:     name,
		Endpoint: helpSearchPath,
		Referer:  referer,
		Payload:  payload,
		Decode:   DecodeDoubleEncoded,
	})
	if err != nil {
		return nil, err
	}

	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("%w: %s rows: %v", ErrInvalidResponse, name, err)
	}
	return rows, nil
}

// LookupGRN searches goods receipt notes whose column matches value.
func (c *Client) LookupGRN(ctx context.Context, column, value string) ([]GRNRow, error) {
	raw, err := c.helpSearch(ctx, "grn_search", dealerHomePath, map[string]string{
		"strFIELD_NAME":        ",STR_DEALER_CODE,STR_GRN_NO,STR_ORDER_NO,STR_INVOICE_NO,INT_TOTAL_GRN_VALUE",
		"strHIDEN_FIELD_INDEX": ",0",
		"strDISPLAY_NAME":      ",STR_DEALER_CODE,GRN No,Order No,Invoice No,Total GRN Value",
		"strSearch":            value,
		"strSEARCH_FIELD_NAME": "STR_GRN_NO",
		"strColName":           column,
		"strORDERBY":           "STR_GRN_NO",
		"strAPI_URL":           grnListAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("lookup GRN by %s=%s: %w", column, value, err)
	}

	rows := make([]GRNRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, GRNRow{
			GRNID:     utils.ToString(r["GRN No"]),
			InvoiceID: utils.ToString(r["Invoice No"]),
			OrderID:   utils.ToString(r["Order No"]),
		})
	}
	return rows, nil
}

// LookupOrder searches pending dealer orders whose column matches value.
// column is one of ColumnDealerOrderNo, ColumnInvoiceNo or ColumnMobileInvoiceNo.
func (c *Client) LookupOrder(ctx context.Context, column, value string) ([]OrderRow, error) {
	raw, err := c.helpSearch(ctx, "order_search", "", map[string]string{
		"strFIELD_NAME":        ",DISTINCT STR_DLR_ORD_NO,STR_INVOICE_NO,STR_MOBILE_INVOICE_NO",
		"strHIDEN_FIELD_INDEX": "",
		"strDISPLAY_NAME":      ",Order No,Invoice No,Mobile Invoice No",
		"strSearch":            value,
		"strSEARCH_FIELD_NAME": "STR_DLR_ORD_NO",
		"strColName":           column,
		"strORDERBY":           "STR_DLR_ORD_NO",
		"strAPI_URL":           pendingOrderAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("lookup order by %s=%s: %w", column, value, err)
	}

	rows := make([]OrderRow, 0, len(raw))
	for _, r := range raw {
		rows = append(rows, OrderRow{
			OrderID:         utils.ToString(r["Order No"]),
			InvoiceID:       utils.ToString(r["Invoice No"]),
			MobileInvoiceID: utils.ToString(r["Mobile Invoice No"]),
		})
	}
	return rows, nil
}

// ResolveInvoice finds the GRN of an invoice when it is not known and fetches the
// invoice products. Ambiguous invoices come back with status Multiple and no products.
func (c *Client) ResolveInvoice(ctx context.Context, ref models.InvoiceRef) (models.InvoiceRecord, error) {
	record := models.InvoiceRecord{InvoiceID: ref.InvoiceID, GRNID: ref.GRNID, Status: models.InvoiceFailed}

	if record.GRNID == "" {
		rows, err := c.LookupGRN(ctx, ColumnInvoiceNo, ref.InvoiceID)
		if err != nil && !Recoverable(err) {
			return record, err
		}
		switch len(rows) {
		case 0:
		case 1:
			record.GRNID = rows[0].GRNID
		default:
			record.Status = models.InvoiceMultiple
			return record, nil
		}
	}

	products, err := c.InquireInvoiceProducts(ctx, models.InvoiceRef{InvoiceID: record.InvoiceID, GRNID: record.GRNID})
	if err != nil {
		return record, err
	}

	record.Status = models.InvoiceSuccess
	record.Products = products
	return record, nil
}
