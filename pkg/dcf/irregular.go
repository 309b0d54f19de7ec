package dcf

// ComputeIrregular discounts each row by its own Year, in the order given,
// accumulating a running NPV and splitting discounted flows into inflows and
// outflow magnitudes for the benefit-cost ratio.
//
// Reordering rows changes only the order of the returned records; the NPV and
// ratio depend on each row's Year, not its position.
func ComputeIrregular(rows []FlowRow, discountRate Value) (IrregularResult, error) {
	rate, err := rateFromPercent(discountRate.Float())
	if err != nil {
		return IrregularResult{}, err
	}

	cashFlows := make([]CashFlowRecord, 0, len(rows))
	npv := 0.0
	for _, row := range rows {
		cashFlow := row.Amount.Float()
		discounted := discount(cashFlow, rate, row.Year)
		npv += discounted
		cashFlows = append(cashFlows, CashFlowRecord{
			Year:               row.Year,
			CashFlow:           cashFlow,
			DiscountedCashFlow: discounted,
			CumulativeNPV:      npv,
		})
	}

	ratio, pvInflows, pvOutflows := BenefitCostRatio(cashFlows)
	return IrregularResult{
		NPV:        npv,
		BCRatio:    ratio,
		PVInflows:  pvInflows,
		PVOutflows: pvOutflows,
		CashFlows:  cashFlows,
	}, nil
}
