package services

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/SscSPs/bizos_backend/internal/core/domain"
	"github.com/SscSPs/bizos_backend/internal/utils"
	"github.com/shopspring/decimal"
)

// fallbackRule answers questions that mention any of its keywords.
type fallbackRule struct {
	name     string
	keywords []string
	format   func(domain.BusinessData) string
}

// fallbackRules are evaluated in order; the first match wins.
var fallbackRules = []fallbackRule{
	{
		name:     "sales",
		keywords: []string{"venda", "vendas", "lead", "leads", "cliente", "clientes", "pipeline", "funil", "conversão", "conversao"},
		format:   salesAdvice,
	},
	{
		name:     "tasks",
		keywords: []string{"tarefa", "tarefas", "produtividade", "equipe", "time", "projeto", "projetos", "prazo", "prazos"},
		format:   tasksAdvice,
	},
	{
		name:     "finance",
		keywords: []string{"financeiro", "financeira", "finanças", "financas", "dinheiro", "receita", "receitas", "despesa", "despesas", "lucro", "caixa", "faturamento", "margem"},
		format:   financeAdvice,
	},
}

// FallbackReply composes a rule-based answer from the business snapshot. It is
// used whenever no language model is available or the model call fails.
func FallbackReply(question string, data domain.BusinessData) string {
	words := questionWords(question)
	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if _, ok := words[kw]; ok {
				return rule.format(data)
			}
		}
	}
	return overviewAdvice(data)
}

func questionWords(question string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(question), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return words
}

var (
	lowConversion = decimal.NewFromInt(20)
	lowCompletion = decimal.NewFromInt(50)
	lowMargin     = decimal.NewFromInt(10)
)

func salesAdvice(d domain.BusinessData) string {
	var b strings.Builder
	b.WriteString("📈 Análise de Vendas\n\n")
	fmt.Fprintf(&b, "• Leads no funil: %d\n", d.Leads.Total)
	fmt.Fprintf(&b, "• Negócios fechados: %d\n", d.Leads.ClosedWon)
	fmt.Fprintf(&b, "• Taxa de conversão: %s\n", utils.FormatPercent(d.Leads.ConversionRate))
	fmt.Fprintf(&b, "• Valor em aberto no pipeline: %s\n\n", utils.FormatCurrency(d.Leads.PipelineValue))

	switch {
	case d.Leads.Total == 0:
		b.WriteString("Você ainda não tem leads cadastrados. Comece registrando seus contatos para acompanhar o funil de vendas.")
	case d.Leads.ConversionRate.LessThan(lowConversion):
		b.WriteString("Sua taxa de conversão está abaixo de 20%. Revise a qualificação dos leads e faça follow-up dos que estão parados em negociação.")
	default:
		b.WriteString("Boa taxa de conversão! Concentre esforços nos leads em proposta e negociação para acelerar o fechamento.")
	}
	return b.String()
}

func tasksAdvice(d domain.BusinessData) string {
	var b strings.Builder
	b.WriteString("✅ Produtividade da Equipe\n\n")
	fmt.Fprintf(&b, "• Tarefas: %d (%d concluídas, %d em andamento, %d a fazer)\n", d.Tasks.Total, d.Tasks.Done, d.Tasks.InProgress, d.Tasks.Todo)
	fmt.Fprintf(&b, "• Atrasadas: %d\n", d.Tasks.Overdue)
	fmt.Fprintf(&b, "• Taxa de conclusão: %s\n\n", utils.FormatPercent(d.Tasks.CompletionRate))

	switch {
	case d.Tasks.Total == 0:
		b.WriteString("Nenhuma tarefa registrada. Organize o trabalho da equipe em tarefas com responsáveis e prazos.")
	case d.Tasks.Overdue > 0:
		fmt.Fprintf(&b, "Há %d tarefa(s) atrasada(s). Priorize-as e redistribua a carga se necessário.", d.Tasks.Overdue)
	case d.Tasks.CompletionRate.LessThan(lowCompletion):
		b.WriteString("Menos da metade das tarefas foi concluída. Reduza o trabalho em andamento e foque em finalizar o que já começou.")
	default:
		b.WriteString("A equipe está com bom ritmo de entregas. Continue acompanhando os prazos semanalmente.")
	}
	return b.String()
}

func financeAdvice(d domain.BusinessData) string {
	var b strings.Builder
	b.WriteString("💰 Situação Financeira do Mês\n\n")
	fmt.Fprintf(&b, "• Receitas: %s\n", utils.FormatCurrency(d.Finance.Revenue))
	fmt.Fprintf(&b, "• Despesas: %s\n", utils.FormatCurrency(d.Finance.Expenses))
	fmt.Fprintf(&b, "• Lucro: %s\n", utils.FormatCurrency(d.Finance.Profit))
	fmt.Fprintf(&b, "• Margem: %s\n", utils.FormatPercent(d.Finance.Margin))
	fmt.Fprintf(&b, "• Saldo total das contas: %s\n\n", utils.FormatCurrency(d.Finance.TotalBalance))

	switch {
	case d.Finance.Revenue.IsZero() && d.Finance.Expenses.IsZero():
		b.WriteString("Ainda não há movimentações neste mês. Registre receitas e despesas para acompanhar o resultado.")
	case d.Finance.Profit.IsNegative():
		b.WriteString("As despesas superam as receitas neste mês. Revise os maiores custos e avalie o que pode ser cortado ou renegociado.")
	case d.Finance.Margin.LessThan(lowMargin):
		b.WriteString("A margem está apertada. Avalie reajuste de preços e controle das despesas variáveis.")
	default:
		b.WriteString("Resultado positivo! Considere reservar parte do lucro para capital de giro e investimentos.")
	}
	return b.String()
}

func overviewAdvice(d domain.BusinessData) string {
	var b strings.Builder
	b.WriteString("📊 Visão Geral do Negócio\n\n")
	fmt.Fprintf(&b, "• Vendas: %d leads, conversão de %s\n", d.Leads.Total, utils.FormatPercent(d.Leads.ConversionRate))
	fmt.Fprintf(&b, "• Equipe: %d tarefas, %s concluídas\n", d.Tasks.Total, utils.FormatPercent(d.Tasks.CompletionRate))
	fmt.Fprintf(&b, "• Financeiro: lucro de %s no mês\n\n", utils.FormatCurrency(d.Finance.Profit))
	b.WriteString("Pergunte sobre vendas, equipe ou finanças para uma análise mais detalhada.")
	return b.String()
}

// businessContext renders the snapshot as the context block appended to the system prompt.
func businessContext(d domain.BusinessData) string {
	var b strings.Builder
	b.WriteString("Dados atuais do negócio:\n")
	fmt.Fprintf(&b, "- Leads: %d no total, %d fechados, conversão %s, pipeline %s\n",
		d.Leads.Total, d.Leads.ClosedWon, utils.FormatPercent(d.Leads.ConversionRate), utils.FormatCurrency(d.Leads.PipelineValue))
	for _, stage := range domain.LeadStages {
		if n := d.Leads.ByStage[stage]; n > 0 {
			fmt.Fprintf(&b, "  - %s: %d\n", stage, n)
		}
	}
	fmt.Fprintf(&b, "- Tarefas: %d no total, %d concluídas, %d em andamento, %d a fazer, %d atrasadas, conclusão %s\n",
		d.Tasks.Total, d.Tasks.Done, d.Tasks.InProgress, d.Tasks.Todo, d.Tasks.Overdue, utils.FormatPercent(d.Tasks.CompletionRate))
	fmt.Fprintf(&b, "- Financeiro do mês: receitas %s, despesas %s, lucro %s, margem %s, saldo total %s\n",
		utils.FormatCurrency(d.Finance.Revenue), utils.FormatCurrency(d.Finance.Expenses), utils.FormatCurrency(d.Finance.Profit),
		utils.FormatPercent(d.Finance.Margin), utils.FormatCurrency(d.Finance.TotalBalance))
	return b.String()
}
