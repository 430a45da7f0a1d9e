// internal/handlers/catalog.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/ynstek/yns-backend/internal/utils"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

type serviceEntry struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// The design-services catalog is fixed content maintained with the code;
// it changes a few times a year at most, so it lives here instead of a
// table.
var serviceCatalog = []serviceEntry{
	{Slug: "shuttle-schedule", Title: "MPW Shuttle 일정", Description: "Shuttle schedule PDF 제공 및 일정 관리"},
	{Slug: "shuttle-guide", Title: "Shuttle 가이드", Description: "Min size, Die #, Wafer delivery 등 가이드문서"},
	{Slug: "process-info", Title: "Process 정보", Description: "전압, 디바이스 종류 등 프로세스 관련 문서"},
	{Slug: "pdk-request", Title: "PDK/DK 요청", Description: "NDA 작성, 서류 사인, 개인정보 동의 절차"},
	{Slug: "outsourcing", Title: "Outsourcing 서비스", Description: "Manual Layout, PNR 인력 구축 및 모집"},
	{Slug: "cost-estimation", Title: "용역비용 산출", Description: "견적서 요청 및 답변, 계약 관리"},
	{Slug: "ip-datasheet", Title: "IP Datasheet", Description: "IP 동작원리 및 시뮬레이션 제공"},
	{Slug: "ip-spec", Title: "IP Spec 설명", Description: "PLL, POR, PVT, ADC, DAC, LDO 등 용어 설명"},
	{Slug: "mpw-management", Title: "MPW 일정관리", Description: "TO 전 Dry GDS 요청, GDS Upload, XOR 기능"},
}

// GET /services
func (h *CatalogHandler) GetServices(c *gin.Context) {
	utils.SuccessResponse(c, serviceCatalog)
}
