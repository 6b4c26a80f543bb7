package dto

// ==================== 批处理 ====================

// BatchRequest 批量操作请求
// record_ids 为空时，对状态列为 pending/failed 的全部行执行 (幂等重跑)
type BatchRequest struct {
	RecordIDs []string `json:"record_ids"`
}

// ItemResult 单条记录的处理结果
type ItemResult struct {
	RecordID string `json:"record_id"`
	Success  bool   `json:"success"`
	Skipped  bool   `json:"skipped,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchResult 批量操作汇总
// 单项失败只计数不抛错，results 与输入顺序一致
type BatchResult struct {
	Total        int          `json:"total"`
	SuccessCount int          `json:"successCount"`
	FailCount    int          `json:"failCount"`
	SkipCount    int          `json:"skipCount"`
	Results      []ItemResult `json:"results"`
}

// Tally 把单项结果并入汇总
func (r *BatchResult) Tally(item ItemResult) {
	r.Results = append(r.Results, item)
	switch {
	case item.Skipped:
		r.SkipCount++
	case item.Success:
		r.SuccessCount++
	default:
		r.FailCount++
	}
}
