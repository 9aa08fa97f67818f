package scheduler

import "time"

// chromosome 的第 i 个基因是第 i 个空缺班次选中的员工下标，-1 表示保持空缺
type chromosome struct {
	genes   []int
	fitness float64
}

func (c *chromosome) clone() *chromosome {
	genes := make([]int, len(c.genes))
	copy(genes, c.genes)
	return &chromosome{genes: genes, fitness: c.fitness}
}

type span struct {
	start time.Time
	end   time.Time
}

func (a span) overlaps(b span) bool {
	return a.start.Before(b.end) && b.start.Before(a.end)
}

// 遗传算法参数
type Parameters struct {
	PopulationSize int     `json:"populationSize"` // 种群大小
	MaxGenerations int     `json:"maxGenerations"` // 最大迭代次数
	CrossoverRate  float64 `json:"crossoverRate"`  // 交叉概率
	MutationRate   float64 `json:"mutationRate"`   // 变异概率
	EliteCount     int     `json:"eliteCount"`     // 精英数量
	FairnessWeight float64 `json:"fairnessWeight"` // 公平性权重
	Seed           int64   `json:"seed"`           // 为 0 时使用当前时间
}

func DefaultParameters() Parameters {
	return Parameters{
		PopulationSize: 60,
		MaxGenerations: 150,
		CrossoverRate:  0.8,
		MutationRate:   0.05,
		EliteCount:     2,
		FairnessWeight: 0.05,
	}
}
