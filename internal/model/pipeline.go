package model

import "procurement-service/internal/workflow"

// Sheet names served by the gateway.
const (
	SheetIndent        = "Indent"
	SheetStoreOut      = "StoreOut"
	SheetPurchaseOrder = "PurchaseOrders"
	SheetQuotation     = "Quotations"
	SheetMaster        = "Master"
)

// Document number schemes per pipeline.
var (
	IndentSequence    = workflow.SequenceFormat{Prefix: "SI-", Width: 4}
	StoreOutSequence  = workflow.SequenceFormat{Prefix: "IS-", Width: 3}
	QuotationSequence = workflow.SequenceFormat{Prefix: "QT-", Width: 3}
	POSequence        = workflow.SequenceFormat{Prefix: "PO-", Width: 3}
)

// Indent pipeline stages. Stage 2 applies only to Three Party indents; the
// vendor type set at stage 1 routes the record past or through it.
const (
	IndentStageApproval       = 1
	IndentStageRateComparison = 2
	IndentStagePOGeneration   = 3
	IndentStagePOApproval     = 4
	IndentStageGoodsReceipt   = 5
	IndentStageQualityCheck   = 6
	IndentStageStoreIn        = 7
)

// Store-out pipeline stages.
const (
	StoreOutStageApproval = 1
	StoreOutStageIssue    = 2
	StoreOutStageReceipt  = 3
)

// IndentStageNames maps indent stage numbers to screen names.
var IndentStageNames = map[int]string{
	IndentStageApproval:       "approval",
	IndentStageRateComparison: "rate-comparison",
	IndentStagePOGeneration:   "po-generation",
	IndentStagePOApproval:     "po-approval",
	IndentStageGoodsReceipt:   "goods-receipt",
	IndentStageQualityCheck:   "quality-check",
	IndentStageStoreIn:        "store-in",
}

// StoreOutStageNames maps store-out stage numbers to screen names.
var StoreOutStageNames = map[int]string{
	StoreOutStageApproval: "approval",
	StoreOutStageIssue:    "issue",
	StoreOutStageReceipt:  "receipt",
}

// ThreePartyOnly constrains a stage view to indents routed through rate
// comparison.
func ThreePartyOnly(i Indent) bool {
	return i.VendorType == VendorTypeThreeParty
}

// NotRejected constrains a stage view to indents still in the pipeline.
func NotRejected(i Indent) bool {
	return i.VendorType != VendorTypeReject
}
