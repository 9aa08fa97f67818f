package scheduler

import (
	"math"
	"slices"
)

// randomInitChromosome 为每个空缺班次随机挑选一名候选员工
func (f *AutoFiller) randomInitChromosome() *chromosome {
	genes := make([]int, len(f.open))
	for i := range f.open {
		genes[i] = f.pick(i)
	}
	return &chromosome{genes: genes}
}

// pick 从第 i 个空缺班次的候选员工中随机选一个，没有候选时返回 -1
func (f *AutoFiller) pick(i int) int {
	candidates := f.candidates[i]
	if len(candidates) == 0 {
		return -1
	}
	return candidates[f.rng.Intn(len(candidates))]
}

/**
 * 计算染色体的适应度
 * fitness = - conflictCost * conflicts - vacancyCost * vacancies - FairnessWeight * variance
 * 其中:
 * 		1. conflicts 为同一员工时间重叠的班次对数
 * 		2. vacancies 为有候选员工却仍然空缺的班次数
 * 		3. variance 为所有员工本周工时（小时）的方差
 * 		4. vacancyCost 大于方差项可能的最大值，conflictCost 大于其余两项之和的最大值，
 * 		   因此三项按 冲突、空缺、公平性 的顺序比较
 */
func (f *AutoFiller) calcFitness(ch *chromosome) {
	hours := slices.Clone(f.fixedHours)
	spans := make([][]span, len(f.employees))
	for e := range f.employees {
		spans[e] = slices.Clone(f.fixedSpans[e])
	}

	vacancies := 0
	for i, e := range ch.genes {
		if e < 0 {
			if len(f.candidates[i]) > 0 {
				vacancies++
			}
			continue
		}
		hours[e] += f.open[i].EndTZ.Sub(f.open[i].StartTZ).Hours()
		spans[e] = append(spans[e], span{start: f.open[i].StartTZ, end: f.open[i].EndTZ})
	}

	conflicts := 0
	for _, ss := range spans {
		for a := 0; a < len(ss); a++ {
			for b := a + 1; b < len(ss); b++ {
				if ss[a].overlaps(ss[b]) {
					conflicts++
				}
			}
		}
	}

	variance := 0.0
	if len(hours) > 0 {
		avg := 0.0
		for _, h := range hours {
			avg += h
		}
		avg /= float64(len(hours))
		for _, h := range hours {
			variance += math.Pow(h-avg, 2)
		}
		variance /= float64(len(hours))
	}

	ch.fitness = -f.conflictCost*float64(conflicts) - f.vacancyCost*float64(vacancies) - f.params.FairnessWeight*variance
}

// 使用轮盘赌来进行选择，适应度先平移到非负区间
func (f *AutoFiller) selectByRoulette(pop []*chromosome) *chromosome {
	lowest := pop[0].fitness
	for _, ch := range pop {
		lowest = min(lowest, ch.fitness)
	}

	const epsilon = 1e-6
	sumFit := 0.0
	for _, ch := range pop {
		sumFit += ch.fitness - lowest + epsilon
	}
	pick := f.rng.Float64() * sumFit
	partial := 0.0

	for _, ch := range pop {
		partial += ch.fitness - lowest + epsilon
		if partial >= pick {
			return ch
		}
	}

	return pop[len(pop)-1]
}

// 单点交叉，交换两个染色体在 point 之后的基因
func (f *AutoFiller) singlePointCrossover(ch1, ch2 *chromosome) {
	length := len(ch1.genes)
	if length != len(ch2.genes) || length == 0 {
		return
	}

	point := f.rng.Intn(length)
	for i := point; i < length; i++ {
		ch1.genes[i], ch2.genes[i] = ch2.genes[i], ch1.genes[i]
	}
}

// 变异：以 MutationRate 的概率为班次重新挑选员工，或者让它保持空缺
func (f *AutoFiller) mutate(ch *chromosome) {
	for i := range ch.genes {
		if f.rng.Float64() > f.params.MutationRate {
			continue
		}
		if f.rng.Intn(len(f.candidates[i])+1) == 0 {
			ch.genes[i] = -1
			continue
		}
		ch.genes[i] = f.pick(i)
	}
}
