package scheduler

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"github.com/sysu-ecnc-dev/shift-board/backend/internal/domain"
)

// AutoFiller 用遗传算法为空缺班次挑选员工，已分配的班次保持不变并计入工时
type AutoFiller struct {
	params       Parameters
	rng          *rand.Rand
	employees    []domain.Employee
	open         []domain.Shift
	candidates   [][]int   // candidates[i] 为 open[i] 的候选员工下标
	fixedHours   []float64 // 每个员工在已分配班次上的工时
	fixedSpans   [][]span  // 每个员工在已分配班次上占用的时间段
	vacancyCost  float64
	conflictCost float64
}

func ValidateParameters(p Parameters) error {
	if p.PopulationSize < 2 {
		return fmt.Errorf("%w: 种群大小至少为 2", domain.ErrInvalidParameters)
	}
	if p.MaxGenerations < 1 {
		return fmt.Errorf("%w: 迭代次数至少为 1", domain.ErrInvalidParameters)
	}
	if p.EliteCount < 0 || p.EliteCount >= p.PopulationSize {
		return fmt.Errorf("%w: 精英数量必须小于种群大小", domain.ErrInvalidParameters)
	}
	if p.CrossoverRate < 0 || p.CrossoverRate > 1 || p.MutationRate < 0 || p.MutationRate > 1 {
		return fmt.Errorf("%w: 交叉概率与变异概率必须在 [0, 1] 内", domain.ErrInvalidParameters)
	}
	if p.FairnessWeight < 0 {
		return fmt.Errorf("%w: 公平性权重不能为负", domain.ErrInvalidParameters)
	}
	return nil
}

// NewAutoFiller 以 shifts 中未分配的班次为待填充对象，候选员工需满足 CheckEligibility
// 且与自己已分配的班次没有时间重叠
func NewAutoFiller(params Parameters, employees []domain.Employee, shifts []domain.Shift) (*AutoFiller, error) {
	if err := ValidateParameters(params); err != nil {
		return nil, err
	}

	seed := params.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	f := &AutoFiller{
		params:     params,
		rng:        rand.New(rand.NewSource(seed)),
		employees:  employees,
		fixedHours: make([]float64, len(employees)),
		fixedSpans: make([][]span, len(employees)),
	}

	index := make(map[string]int, len(employees))
	for i, e := range employees {
		index[e.ID] = i
	}

	for _, sh := range shifts {
		if sh.Candidate == nil {
			f.open = append(f.open, sh)
			continue
		}
		if e, ok := index[sh.Candidate.Employee.ID]; ok {
			f.fixedHours[e] += sh.EndTZ.Sub(sh.StartTZ).Hours()
			f.fixedSpans[e] = append(f.fixedSpans[e], span{start: sh.StartTZ, end: sh.EndTZ})
		}
	}

	// 工时非负且总和不超过 total 时，方差不超过 total²
	total := 0.0
	for _, h := range f.fixedHours {
		total += h
	}
	for _, sh := range f.open {
		total += sh.EndTZ.Sub(sh.StartTZ).Hours()
	}
	f.vacancyCost = 1 + params.FairnessWeight*total*total
	f.conflictCost = f.vacancyCost * float64(len(f.open)+1)

	f.candidates = make([][]int, len(f.open))
	for i, sh := range f.open {
		own := span{start: sh.StartTZ, end: sh.EndTZ}
		for e, emp := range employees {
			if CheckEligibility(emp, sh.StartTZ, sh.EndTZ) != nil {
				continue
			}
			if overlapsAny(own, f.fixedSpans[e]) {
				continue
			}
			f.candidates[i] = append(f.candidates[i], e)
		}
	}

	return f, nil
}

func overlapsAny(s span, spans []span) bool {
	for _, other := range spans {
		if s.overlaps(other) {
			return true
		}
	}
	return false
}

// Fill 返回 班次 ID -> 员工 的分配结果，结果中不含仍然空缺的班次
func (f *AutoFiller) Fill() map[string]domain.Employee {
	if len(f.open) == 0 {
		return map[string]domain.Employee{}
	}

	size := f.params.PopulationSize

	// 生成初始种群
	pop := make([]*chromosome, size)
	for i := range size {
		pop[i] = f.randomInitChromosome()
		f.calcFitness(pop[i])
	}

	best := &chromosome{fitness: -math.MaxFloat64}

	for gen := 0; gen < f.params.MaxGenerations; gen++ {
		sort.Slice(pop, func(i, j int) bool {
			return pop[i].fitness > pop[j].fitness
		})
		if pop[0].fitness > best.fitness {
			best = pop[0].clone()
		}

		// 繁殖，精英直接保留
		newPop := make([]*chromosome, 0, size)
		for i := 0; i < f.params.EliteCount; i++ {
			newPop = append(newPop, pop[i].clone())
		}

		for len(newPop) < size {
			p1 := f.selectByRoulette(pop).clone()
			p2 := f.selectByRoulette(pop).clone()

			if f.rng.Float64() < f.params.CrossoverRate {
				f.singlePointCrossover(p1, p2)
			}

			f.mutate(p1)
			f.mutate(p2)

			newPop = append(newPop, p1)
			if len(newPop) < size {
				newPop = append(newPop, p2)
			}
		}

		for i := range newPop {
			f.calcFitness(newPop[i])
		}
		pop = newPop
	}

	for _, ch := range pop {
		if ch.fitness > best.fitness {
			best = ch.clone()
		}
	}

	return f.resolve(best)
}

// resolve 按班次开始时间依次落实分配，与该员工已落实的班次重叠的分配被丢弃
func (f *AutoFiller) resolve(ch *chromosome) map[string]domain.Employee {
	order := make([]int, len(f.open))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return f.open[order[a]].StartTZ.Before(f.open[order[b]].StartTZ)
	})

	taken := make([][]span, len(f.employees))
	for e := range f.employees {
		taken[e] = append([]span(nil), f.fixedSpans[e]...)
	}

	result := make(map[string]domain.Employee)
	for _, i := range order {
		e := ch.genes[i]
		if e < 0 {
			continue
		}
		s := span{start: f.open[i].StartTZ, end: f.open[i].EndTZ}
		if overlapsAny(s, taken[e]) {
			continue
		}
		taken[e] = append(taken[e], s)
		result[f.open[i].ID] = f.employees[e]
	}
	return result
}
