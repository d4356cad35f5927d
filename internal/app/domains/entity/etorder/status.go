package etorder

// Status 订单状态
type Status string

const (
	StatusToPay              Status = "TO_PAY"
	StatusToSend             Status = "TO_SEND"
	StatusToReceive          Status = "TO_RECEIVE"
	StatusFinished           Status = "FINISHED"
	StatusCanceled           Status = "CANCELED"
	StatusReturnApplied      Status = "RETURN_APPLIED"
	StatusReturnRefused      Status = "RETURN_REFUSED"
	StatusReturnFinish       Status = "RETURN_FINISH"
	StatusReturnMoneyRefused Status = "RETURN_MONEY_REFUSED"
)

var allStatuses = map[Status]struct{}{
	StatusToPay:              {},
	StatusToSend:             {},
	StatusToReceive:          {},
	StatusFinished:           {},
	StatusCanceled:           {},
	StatusReturnApplied:      {},
	StatusReturnRefused:      {},
	StatusReturnFinish:       {},
	StatusReturnMoneyRefused: {},
}

// 进入这些状态时释放库存
var restockSet = map[Status]struct{}{
	StatusCanceled:           {},
	StatusReturnApplied:      {},
	StatusReturnRefused:      {},
	StatusReturnFinish:       {},
	StatusReturnMoneyRefused: {},
}

// Valid 是否为允许的状态值
func (s Status) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// InRestockSet 是否属于回补库存的终态集合
func (s Status) InRestockSet() bool {
	_, ok := restockSet[s]
	return ok
}

// NeedsRestock 仅当从非回补状态进入回补状态时回补，保证库存只回补一次
func NeedsRestock(prev, next Status) bool {
	return next.InRestockSet() && !prev.InRestockSet()
}

// TransitionPolicy 通用状态更新的迁移约束
type TransitionPolicy interface {
	Name() string
	Allow(from, to Status) bool
}

// PermissivePolicy 任意合法状态之间均可迁移
type PermissivePolicy struct{}

func (PermissivePolicy) Name() string { return "permissive" }

func (PermissivePolicy) Allow(from, to Status) bool {
	return from.Valid() && to.Valid()
}

// StrictPolicy 按状态迁移表约束
type StrictPolicy struct{}

var transitions = map[Status][]Status{
	StatusToPay:         {StatusToSend, StatusCanceled},
	StatusToSend:        {StatusToReceive, StatusReturnApplied},
	StatusToReceive:     {StatusFinished, StatusReturnApplied},
	StatusFinished:      {StatusReturnApplied},
	StatusReturnApplied: {StatusReturnRefused, StatusReturnFinish, StatusReturnMoneyRefused},
}

func (StrictPolicy) Name() string { return "strict" }

func (StrictPolicy) Allow(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// PolicyByName 按配置名称选择策略，未知名称返回 false
func PolicyByName(name string) (TransitionPolicy, bool) {
	switch name {
	case "", "permissive":
		return PermissivePolicy{}, true
	case "strict":
		return StrictPolicy{}, true
	default:
		return nil, false
	}
}
