// Package export writes analysis results to spreadsheet workbooks for the
// back office.
package export

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/normaudit/insight-cli/internal/assembler"
	"github.com/normaudit/insight-cli/internal/model"
)

// WriteBundle writes an insight bundle to an XLSX workbook with one sheet
// per report area.
func WriteBundle(bundle assembler.Bundle, path string) error {
	f := xlsx.NewFile()

	if err := addSummarySheet(f, bundle); err != nil {
		return err
	}
	if err := addKPISheet(f, bundle.Report.KPIs); err != nil {
		return err
	}
	if err := addAnomalySheet(f, bundle.Report.Anomalies); err != nil {
		return err
	}
	if err := addRecommendationSheet(f, bundle.Report.Recommendations); err != nil {
		return err
	}
	if err := addPlanSheet(f, bundle.Plans); err != nil {
		return err
	}

	if err := f.Save(path); err != nil {
		return eris.Wrap(err, "export: save workbook")
	}
	return nil
}

func addSummarySheet(f *xlsx.File, bundle assembler.Bundle) error {
	sheet, err := f.AddSheet("Synthèse")
	if err != nil {
		return eris.Wrap(err, "export: add summary sheet")
	}

	addPair(sheet, "Identifiant d'analyse", bundle.AnalysisID)
	addPair(sheet, "Généré le", bundle.GeneratedAt.Format("2006-01-02 15:04:05"))
	addPair(sheet, "Score de santé", formatFloat(bundle.Report.Sentiment.Score))
	addPair(sheet, "Niveau", bundle.Report.Sentiment.Label)
	addPair(sheet, "Tendance", bundle.Report.Trend.Description)
	addPair(sheet, "Résumé", bundle.Report.Summary)
	return nil
}

func addKPISheet(f *xlsx.File, kpis []model.KPI) error {
	sheet, err := f.AddSheet("Indicateurs")
	if err != nil {
		return eris.Wrap(err, "export: add kpi sheet")
	}

	addHeader(sheet, "Indicateur", "Valeur", "Unité", "Tendance", "Analyse")
	for _, kpi := range kpis {
		row := sheet.AddRow()
		row.AddCell().Value = kpi.Name
		row.AddCell().SetFloat(kpi.Value)
		row.AddCell().Value = kpi.Unit
		row.AddCell().Value = kpi.Trend
		row.AddCell().Value = kpi.Insight
	}
	return nil
}

func addAnomalySheet(f *xlsx.File, anomalies []model.AnomalyRecord) error {
	sheet, err := f.AddSheet("Anomalies")
	if err != nil {
		return eris.Wrap(err, "export: add anomaly sheet")
	}

	addHeader(sheet, "Type", "Sévérité", "Description", "Valeur", "Seuil", "Impact")
	for _, a := range anomalies {
		row := sheet.AddRow()
		row.AddCell().Value = a.Type
		row.AddCell().Value = a.Severity
		row.AddCell().Value = a.Description
		row.AddCell().SetFloat(a.Value)
		row.AddCell().SetFloat(a.Threshold)
		row.AddCell().Value = a.Context.BusinessImpact
	}
	return nil
}

func addRecommendationSheet(f *xlsx.File, recs []model.Recommendation) error {
	sheet, err := f.AddSheet("Recommandations")
	if err != nil {
		return eris.Wrap(err, "export: add recommendation sheet")
	}

	addHeader(sheet, "Priorité", "Titre", "Actions")
	for _, rec := range recs {
		row := sheet.AddRow()
		row.AddCell().Value = rec.Priority
		row.AddCell().Value = rec.Title
		row.AddCell().Value = strings.Join(rec.Actions, " ; ")
	}
	return nil
}

func addPlanSheet(f *xlsx.File, insights []model.PlanInsight) error {
	sheet, err := f.AddSheet("Plans")
	if err != nil {
		return eris.Wrap(err, "export: add plan sheet")
	}

	addHeader(sheet, "Plan", "Priorité", "Risque", "Adoption %", "Utilisation %", "Abonnés", "Recommandations")
	for _, insight := range insights {
		row := sheet.AddRow()
		row.AddCell().Value = insight.PlanName
		row.AddCell().SetInt(insight.PriorityScore)
		row.AddCell().Value = string(insight.RiskLevel)
		row.AddCell().SetFloat(insight.Metrics.AdoptionRate)
		row.AddCell().SetFloat(insight.Metrics.Utilization)
		row.AddCell().SetInt(insight.Metrics.SubscriberCount)
		row.AddCell().Value = strings.Join(insight.Recommendations, " ; ")
	}
	return nil
}

func addPair(sheet *xlsx.Sheet, key, value string) {
	row := sheet.AddRow()
	row.AddCell().Value = key
	row.AddCell().Value = value
}

func addHeader(sheet *xlsx.Sheet, titles ...string) {
	row := sheet.AddRow()
	for _, t := range titles {
		row.AddCell().Value = t
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
