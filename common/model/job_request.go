package model

// OrderExpireJob 待支付超时任务消息
// 下单后投递到 lmstfy 延迟队列，到期由 expire consumer 消费
type OrderExpireJob struct {
	OrderID  string `json:"order_id"`  // 订单 ID
	ExpireAt int64  `json:"expire_at"` // 超时时间（毫秒时间戳）
}
